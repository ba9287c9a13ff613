package core

// CompareOp is a condition's comparison operator.
type CompareOp int

const (
	OpLT CompareOp = iota
	OpLE
	OpEQ
	OpGE
	OpGT
)

func (op CompareOp) apply(lhs, rhs float64) bool {
	switch op {
	case OpLT:
		return lhs < rhs
	case OpLE:
		return lhs <= rhs
	case OpEQ:
		return lhs == rhs
	case OpGE:
		return lhs >= rhs
	case OpGT:
		return lhs > rhs
	default:
		return false
	}
}

// MaxConditionsPerBucket is the fixed capacity of Bucket A and Bucket B.
const MaxConditionsPerBucket = 10

// Condition is one configured comparison, immutable between configuration
// saves (section 3).
type Condition struct {
	Enabled    bool
	VarID      VariableID
	Op         CompareOp
	Threshold  float32
	ForSeconds uint16
}

// conditionState is the runtime dwell accumulator owned by the rule engine,
// never persisted (section 3).
type conditionState struct {
	accumTicks uint16
}

// Bucket holds up to MaxConditionsPerBucket conditions and their dwell
// state. BucketKind determines whether Evaluate ANDs or ORs its members.
type Bucket struct {
	kind       bucketKind
	Conditions []Condition
	state      []conditionState
}

type bucketKind int

const (
	bucketAAnd bucketKind = iota
	bucketBOr
)

// NewBucketA returns a Bucket A over the given conditions (AND
// aggregation, vacuously true when it has none).
func NewBucketA(conditions []Condition) *Bucket {
	return newBucket(bucketAAnd, conditions)
}

// NewBucketB returns a Bucket B over the given conditions (OR
// aggregation, vacuously false when it has none).
func NewBucketB(conditions []Condition) *Bucket {
	return newBucket(bucketBOr, conditions)
}

func newBucket(kind bucketKind, conditions []Condition) *Bucket {
	if len(conditions) > MaxConditionsPerBucket {
		conditions = conditions[:MaxConditionsPerBucket]
	}
	return &Bucket{
		kind:       kind,
		Conditions: conditions,
		state:      make([]conditionState, len(conditions)),
	}
}

// evaluateCondition reports whether a single enabled condition currently
// holds, per section 4.5's comparison + dwell rule, and advances/ resets
// its dwell accumulator accordingly.
func (b *Bucket) evaluateCondition(i int, r Readings) bool {
	c := b.Conditions[i]
	v := r.Get(c.VarID)

	comparisonTrue := v.Valid && !isNonFinite32(v.Value) && c.Op.apply(float64(v.Value), float64(c.Threshold))

	if comparisonTrue {
		if b.state[i].accumTicks < c.ForSeconds {
			b.state[i].accumTicks++
		}
	} else {
		b.state[i].accumTicks = 0
	}

	if c.ForSeconds == 0 {
		return comparisonTrue
	}
	return b.state[i].accumTicks >= c.ForSeconds
}

// Evaluate aggregates enabled conditions: AND for Bucket A (vacuously
// true), OR for Bucket B (vacuously false).
func (b *Bucket) Evaluate(r Readings) bool {
	anyEnabled := false
	result := b.kind == bucketAAnd // AND identity true, OR identity false

	for i, c := range b.Conditions {
		if !c.Enabled {
			continue
		}
		anyEnabled = true
		satisfied := b.evaluateCondition(i, r)

		switch b.kind {
		case bucketAAnd:
			result = result && satisfied
		case bucketBOr:
			result = result || satisfied
		}
	}

	if !anyEnabled {
		return b.kind == bucketAAnd
	}
	return result
}

// ResetDwell zeroes every condition's dwell accumulator. Called when the
// cut gates block (section 4.5: "dwell may not accrue under gating").
func (b *Bucket) ResetDwell() {
	for i := range b.state {
		b.state[i] = conditionState{}
	}
}

// DwellTicks exposes a condition's current accumulator, for tests and
// telemetry.
func (b *Bucket) DwellTicks(i int) uint16 {
	return b.state[i].accumTicks
}

func isNonFinite32(f float32) bool {
	return f != f || f > 3.4e38 || f < -3.4e38
}

// Gates are the global cut preconditions from section 4.5.
type Gates struct {
	RequireLaunchBeforeCut bool
	RequireGPSFixBeforeCut bool
}

// Pass evaluates the gates against current state and readings.
func (g Gates) Pass(launchDetected bool, r Readings) bool {
	if g.RequireLaunchBeforeCut && !launchDetected {
		return false
	}
	if g.RequireGPSFixBeforeCut && !r.GPSFixPresent() {
		return false
	}
	return true
}

// RuleEngine evaluates Bucket A AND Bucket B once per tick, honoring the
// gating rule that resets all dwell when gates block.
type RuleEngine struct {
	BucketA *Bucket
	BucketB *Bucket
	Gates   Gates
}

// NewRuleEngine builds a rule engine over the two configured buckets.
func NewRuleEngine(a, b []Condition, gates Gates) *RuleEngine {
	return &RuleEngine{
		BucketA: NewBucketA(a),
		BucketB: NewBucketB(b),
		Gates:   gates,
	}
}

// Evaluate returns true when a rule-based cut should fire this tick.
func (e *RuleEngine) Evaluate(launchDetected bool, r Readings) bool {
	if !e.Gates.Pass(launchDetected, r) {
		e.BucketA.ResetDwell()
		e.BucketB.ResetDwell()
		return false
	}
	return e.BucketA.Evaluate(r) && e.BucketB.Evaluate(r)
}

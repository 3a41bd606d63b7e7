package tx

import "github.com/blocto/solana-go-sdk/types"

// Step is one instruction tagged with the numbered stage that emitted it.
// Several instructions may share a step.
type Step struct {
	Number      int
	Instruction Instruction
}

// Sequence is an ordered instruction list, compiled into one transaction.
type Sequence struct {
	steps []Step
}

// NewSequence creates an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Add appends instructions under step number n.
func (s *Sequence) Add(n int, ins ...Instruction) *Sequence {
	for _, in := range ins {
		s.steps = append(s.steps, Step{Number: n, Instruction: in})
	}
	return s
}

// Steps returns a copy of the steps in order.
func (s *Sequence) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Len returns the number of instructions.
func (s *Sequence) Len() int {
	return len(s.steps)
}

// Kinds returns instruction kinds in order.
func (s *Sequence) Kinds() []Kind {
	kinds := make([]Kind, len(s.steps))
	for i, st := range s.steps {
		kinds[i] = st.Instruction.Kind()
	}
	return kinds
}

// Count returns how many instructions have the given kind.
func (s *Sequence) Count(kind Kind) int {
	n := 0
	for _, st := range s.steps {
		if st.Instruction.Kind() == kind {
			n++
		}
	}
	return n
}

// StepNumbers returns the distinct step numbers in order of appearance.
func (s *Sequence) StepNumbers() []int {
	var nums []int
	for _, st := range s.steps {
		if len(nums) == 0 || nums[len(nums)-1] != st.Number {
			nums = append(nums, st.Number)
		}
	}
	return nums
}

// Ordered reports whether step numbers never decrease.
func (s *Sequence) Ordered() bool {
	for i := 1; i < len(s.steps); i++ {
		if s.steps[i].Number < s.steps[i-1].Number {
			return false
		}
	}
	return true
}

// Compile encodes every instruction for the ledger.
func (s *Sequence) Compile() []types.Instruction {
	out := make([]types.Instruction, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.Instruction.Compile()
	}
	return out
}

func (s *Sequence) kindNames() []string {
	names := make([]string, len(s.steps))
	for i, st := range s.steps {
		names[i] = string(st.Instruction.Kind())
	}
	return names
}

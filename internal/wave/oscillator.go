package wave

const (
	DefaultFrequency = 220.0
	DefaultPhase     = 90.0
)

type Oscillator struct {
	ID        int     `json:"id" yaml:"id"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Phase     float64 `json:"phase" yaml:"phase"` // degrees
}

// Patch holds optional field updates for Bank.Update.
type Patch struct {
	Frequency *float64
	Phase     *float64
}

func Freq(v float64) Patch  { return Patch{Frequency: &v} }
func Phase(v float64) Patch { return Patch{Phase: &v} }

// Bank is an ordered oscillator set. NextID is the id the next Add will use;
// it only ever grows, so ids stay unique after removals.
type Bank struct {
	Oscillators []Oscillator `json:"oscillators" yaml:"oscillators"`
	NextID      int          `json:"next_id" yaml:"next_id"`
}

// NewBank returns the initial bank: one 440 Hz oscillator at 90 degrees.
func NewBank() Bank {
	return Bank{
		Oscillators: []Oscillator{{ID: 0, Frequency: 440, Phase: 90}},
		NextID:      1,
	}
}

// BankOf builds a bank from (frequency, phase) pairs, numbering from zero.
func BankOf(pairs ...[2]float64) Bank {
	b := Bank{}
	for _, p := range pairs {
		b = b.Add(p[0], p[1])
	}
	return b
}

func (b Bank) Len() int { return len(b.Oscillators) }

// Snapshot returns a copy of the oscillators safe to hand to evaluations.
func (b Bank) Snapshot() []Oscillator {
	out := make([]Oscillator, len(b.Oscillators))
	copy(out, b.Oscillators)
	return out
}

func (b Bank) Add(frequency, phase float64) Bank {
	oscs := make([]Oscillator, len(b.Oscillators), len(b.Oscillators)+1)
	copy(oscs, b.Oscillators)
	oscs = append(oscs, Oscillator{ID: b.NextID, Frequency: frequency, Phase: phase})
	return Bank{Oscillators: oscs, NextID: b.NextID + 1}
}

// AddDefault appends an oscillator with DefaultFrequency and DefaultPhase.
func (b Bank) AddDefault() Bank { return b.Add(DefaultFrequency, DefaultPhase) }

// Update applies p to the oscillator with the given id. Unknown ids are a no-op.
func (b Bank) Update(id int, p Patch) Bank {
	oscs := b.Snapshot()
	for i := range oscs {
		if oscs[i].ID != id {
			continue
		}
		if p.Frequency != nil {
			f := *p.Frequency
			if f < 0 {
				f = 0
			}
			oscs[i].Frequency = f
		}
		if p.Phase != nil {
			oscs[i].Phase = *p.Phase
		}
	}
	return Bank{Oscillators: oscs, NextID: b.NextID}
}

func (b Bank) Remove(id int) Bank {
	oscs := make([]Oscillator, 0, len(b.Oscillators))
	for _, o := range b.Oscillators {
		if o.ID != id {
			oscs = append(oscs, o)
		}
	}
	return Bank{Oscillators: oscs, NextID: b.NextID}
}

func (b Bank) Get(id int) (Oscillator, bool) {
	for _, o := range b.Oscillators {
		if o.ID == id {
			return o, true
		}
	}
	return Oscillator{}, false
}

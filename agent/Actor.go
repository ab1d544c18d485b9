// Package agent implements the tabular actor of an eligibility-trace
// actor-critic agent
package agent

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/valleycar/environment"
	"github.com/samuelfneumann/valleycar/utils/floatutils"
	"github.com/samuelfneumann/valleycar/utils/matutils/tilecoder"
)

// SAP is a state-action pair. It is comparable and used as the key of
// the Actor's policy and eligibility tables.
type SAP struct {
	State  tilecoder.Key
	Action environment.Action
}

// Actor implements an ε-greedy policy over a table of state-action
// preferences. Preferences are updated with TD errors computed by a
// critic, weighted by a per-pair eligibility trace.
//
// Both tables only contain pairs that were explicitly written. Looking
// up a missing pair returns 0 and does not grow the table. The policy
// table and the eligibility table grow with the number of distinct
// pairs seen and are never pruned.
type Actor struct {
	policy      map[SAP]float64
	eligibility map[SAP]float64

	epsilon      float64
	epsilonDecay float64
	learningRate float64
	traceDecay   float64 // γλ
	decayAll     bool

	rng     *rand.Rand
	uniform distuv.Uniform
}

// NewActor returns a new Actor. The seed determines exploration.
func NewActor(c Config, seed uint64) (*Actor, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newActor: %v", err)
	}

	source := rand.NewSource(seed)

	return &Actor{
		policy:       make(map[SAP]float64),
		eligibility:  make(map[SAP]float64),
		epsilon:      c.Epsilon,
		epsilonDecay: c.EpsilonDecay,
		learningRate: c.LearningRate,
		traceDecay:   c.DiscountFactor * c.TraceDecay,
		decayAll:     c.DecayAllTraces,
		rng:          rand.New(source),
		uniform:      distuv.Uniform{Min: 0, Max: 1, Src: source},
	}, nil
}

// SelectAction selects an action in state from the legal actions.
// Epsilon is decayed first, then with probability 1-ε the action with
// the highest preference is returned, ties going to the earliest legal
// action. Otherwise a legal action is chosen uniformly at random.
func (a *Actor) SelectAction(state tilecoder.Key,
	legal []environment.Action) (environment.Action, error) {
	if len(legal) == 0 {
		return 0, fmt.Errorf("selectAction: no legal actions")
	}

	a.epsilon *= a.epsilonDecay
	if a.uniform.Rand() >= a.epsilon {
		return a.Greedy(state, legal), nil
	}
	return legal[a.rng.Intn(len(legal))], nil
}

// Greedy returns the legal action with the highest preference in
// state, ties going to the earliest legal action. Greedy does not
// change epsilon.
func (a *Actor) Greedy(state tilecoder.Key,
	legal []environment.Action) environment.Action {
	preferences := make([]float64, len(legal))
	for i, action := range legal {
		preferences[i] = a.Policy(state, action)
	}
	return legal[floatutils.ArgMax(preferences)]
}

// RecordVisit sets the eligibility of the pair to 1, overwriting any
// previous trace
func (a *Actor) RecordVisit(state tilecoder.Key, action environment.Action) {
	a.eligibility[SAP{state, action}] = 1.0
}

// Decay multiplies the eligibility of a single pair by γλ. Pairs
// without a trace are left untouched.
func (a *Actor) Decay(state tilecoder.Key, action environment.Action) {
	sap := SAP{state, action}
	if e, ok := a.eligibility[sap]; ok {
		a.eligibility[sap] = e * a.traceDecay
	}
}

// DecayAll multiplies the eligibility of every tracked pair by γλ
func (a *Actor) DecayAll() {
	for sap, e := range a.eligibility {
		a.eligibility[sap] = e * a.traceDecay
	}
}

// DecaysAll returns whether the Actor was configured to decay every
// tracked pair on each step
func (a *Actor) DecaysAll() bool {
	return a.decayAll
}

// UpdatePreference adds learningRate * tdError * eligibility to the
// preference of the pair. Pairs with no eligibility are not updated.
func (a *Actor) UpdatePreference(state tilecoder.Key,
	action environment.Action, tdError float64) {
	sap := SAP{state, action}
	e, ok := a.eligibility[sap]
	if !ok || e == 0 {
		return
	}
	a.policy[sap] += a.learningRate * tdError * e
}

// ResetEpisode clears all eligibility traces. Preferences persist.
func (a *Actor) ResetEpisode() {
	a.eligibility = make(map[SAP]float64)
}

// Policy returns the preference of the pair, 0 if never updated
func (a *Actor) Policy(state tilecoder.Key, action environment.Action) float64 {
	return a.policy[SAP{state, action}]
}

// Eligibility returns the eligibility of the pair, 0 if not tracked
func (a *Actor) Eligibility(state tilecoder.Key,
	action environment.Action) float64 {
	return a.eligibility[SAP{state, action}]
}

// Epsilon returns the current exploration rate
func (a *Actor) Epsilon() float64 {
	return a.epsilon
}

// SetEpsilon sets the current exploration rate
func (a *Actor) SetEpsilon(epsilon float64) {
	a.epsilon = epsilon
}

// PolicySize returns the number of pairs with a stored preference
func (a *Actor) PolicySize() int {
	return len(a.policy)
}

// EligibilitySize returns the number of pairs with a trace
func (a *Actor) EligibilitySize() int {
	return len(a.eligibility)
}

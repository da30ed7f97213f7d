package predicate

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vftdan/est-go/internal/event"
)

func rangePred(field Field, min, max int64) Predicate {
	return Predicate{Kind: KindRange, Enabled: true, RangeField: field, Min: min, Max: max}
}

func TestInversionInvolution(t *testing.T) {
	r := NewRegistry()
	base := rangePred(FieldPayload, 0, 10)
	h := r.Add(base)

	double := r.Add(Predicate{Kind: KindConjunction, Enabled: true, Inverted: true,
		Children: []Handle{r.Add(Predicate{Kind: KindConjunction, Enabled: true, Inverted: true, Children: []Handle{h}})}})

	ev := &event.Event{}
	ev.Data.Payload = 5

	require.Equal(t, r.Apply(h, ev), r.Apply(double, ev))
}

func TestDisabledIsIdentityInConjunction(t *testing.T) {
	r := NewRegistry()
	accept := r.Add(Predicate{Kind: KindAccept, Enabled: true})
	disabled := r.Add(Predicate{Kind: KindAccept, Enabled: false})

	withDisabled := r.Add(Predicate{Kind: KindConjunction, Enabled: true, Children: []Handle{accept, disabled}})
	withoutDisabled := r.Add(Predicate{Kind: KindConjunction, Enabled: true, Children: []Handle{accept}})

	require.Equal(t, r.Apply(withoutDisabled, nil), r.Apply(withDisabled, nil))
}

func TestConjunctionShortCircuits(t *testing.T) {
	r := NewRegistry()
	reject := r.Add(rangePred(FieldPayload, 100, 200))
	accept := r.Add(Predicate{Kind: KindAccept, Enabled: true})
	conj := r.Add(Predicate{Kind: KindConjunction, Enabled: true, Children: []Handle{reject, accept}})

	ev := &event.Event{}
	ev.Data.Payload = 1
	require.Equal(t, Rejected, r.Apply(conj, ev))
}

func TestDisjunctionAllDisabledIsDisabled(t *testing.T) {
	r := NewRegistry()
	d1 := r.Add(Predicate{Kind: KindAccept, Enabled: false})
	d2 := r.Add(Predicate{Kind: KindAccept, Enabled: false})
	disj := r.Add(Predicate{Kind: KindDisjunction, Enabled: true, Children: []Handle{d1, d2}})

	require.Equal(t, Disabled, r.Apply(disj, nil))
}

func TestInvalidHandleIsDisabled(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, Disabled, r.Apply(Invalid, nil))
	require.Equal(t, Disabled, r.Apply(Handle(42), nil))
}

func TestRangeOnNilEventIsDisabled(t *testing.T) {
	r := NewRegistry()
	h := r.Add(rangePred(FieldPayload, 0, 10))
	require.Equal(t, Disabled, r.Apply(h, nil))
}

func TestModifierPresent(t *testing.T) {
	r := NewRegistry()
	h := r.Add(Predicate{Kind: KindModifierPresent, Enabled: true, Modifier: 4})

	withMod := &event.Event{}
	withMod.Data.Modifiers.Set(4)
	withoutMod := &event.Event{}

	require.Equal(t, Accepted, r.Apply(h, withMod))
	require.Equal(t, Rejected, r.Apply(h, withoutMod))
}

func TestDeepTreeDoesNotOverflowStack(t *testing.T) {
	r := NewRegistry()
	leaf := r.Add(Predicate{Kind: KindAccept, Enabled: true})
	cur := leaf
	for i := 0; i < MaxDepth+50; i++ {
		cur = r.Add(Predicate{Kind: KindConjunction, Enabled: true, Children: []Handle{cur}})
	}
	// Beyond MaxDepth the evaluation bottoms out at Disabled rather than
	// panicking or recursing unboundedly.
	require.Equal(t, Disabled, r.Apply(cur, nil))
}

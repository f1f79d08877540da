package crate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/go-utils/errs"
)

type A struct {
	value int
}

type B struct {
	value bool
}

type C struct {
	value string
}

type D struct {
	value float32
}

// Base and Mock exercise interface-typed slots.
type Base interface {
	Test()
}

type Mock struct {
	wasCalled bool
}

func (m *Mock) Test() {
	m.wasCalled = true
}

func newAB(t *testing.T) (Container, *A, *B) {
	t.Helper()

	a, b := &A{value: 1234}, &B{}

	c, err := NewServices(MustDeclare(Mut[A](), Mut[B]()), Share(a), Share(b))
	require.NoError(t, err)

	return c, a, b
}

func TestDefault(t *testing.T) {
	c := Default(MustDeclare(Mut[A](), Const[B](), Mut[C]()))

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, StrategyShared, c.Strategy())

	a := MustGet[A](c)
	require.NotNil(t, a.Get())
	assert.Equal(t, 0, a.Get().value)

	b := MustGetConst[B](c)
	assert.False(t, b.Value().value)
}

func TestDefault_FreshInstances(t *testing.T) {
	shape := MustDeclare(Mut[A]())

	c1 := Default(shape)
	c2 := Default(shape)

	assert.NotSame(t, MustGet[A](c1).Get(), MustGet[A](c2).Get())
}

func TestNew_Direct(t *testing.T) {
	c, a, b := newAB(t)

	assert.Same(t, a, MustGet[A](c).Get())
	assert.Same(t, b, MustGet[B](c).Get())
	assert.Equal(t, []Key{Mut[A](), Mut[B]()}, c.Keys())
}

func TestNew_ArityMismatch(t *testing.T) {
	_, err := NewServices(MustDeclare(Mut[A](), Mut[B]()), Share(&A{}))

	assert.ErrorIs(t, err, ErrHolderMismatch)
}

func TestNew_WrongType(t *testing.T) {
	_, err := NewServices(MustDeclare(Mut[A](), Mut[B]()), Share(&B{}), Share(&A{}))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHolderMismatch)
	assert.Contains(t, err.Error(), "holder stores")
}

func TestNew_WrongStrategy(t *testing.T) {
	_, err := NewServices(MustDeclare(Mut[A]()), Borrow(&A{}))

	assert.ErrorIs(t, err, ErrHolderMismatch)
	assert.Contains(t, err.Error(), "borrowed holder in shared container")
}

func TestNew_NilHolder(t *testing.T) {
	_, err := NewServices(MustDeclare(Mut[A]()), nil)

	assert.ErrorIs(t, err, ErrInvalidHolder)
}

func TestNew_ZeroLazy(t *testing.T) {
	var zero Lazy[A]

	_, err := NewLazyServices(MustDeclare(Mut[A]()), &zero)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFactory)

	var cerr *errs.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "crate.A", cerr.GetContext()["type"])
	assert.Equal(t, 0, cerr.GetContext()["position"])

	_, err = NewLazyServices(MustDeclare(Const[A]()), AsConst(&Lazy[A]{}))
	assert.ErrorIs(t, err, ErrInvalidFactory)

	var nilLazy *Lazy[A]
	_, err = NewLazyServices(MustDeclare(Mut[A]()), nilLazy)
	assert.ErrorIs(t, err, ErrInvalidFactory)
}

func TestNew_ConstHolderInMutableSlot(t *testing.T) {
	_, err := NewServices(MustDeclare(Mut[A]()), AsConst(Share(&A{})))

	assert.ErrorIs(t, err, ErrConstViolation)
}

func TestNew_ConstHolderInConstSlot(t *testing.T) {
	a := &A{}

	c, err := NewServices(MustDeclare(Const[A]()), AsConst(Share(a)))
	require.NoError(t, err)

	view, err := GetConst[A](c)
	require.NoError(t, err)
	assert.True(t, Same(view.Holder(), Share(a)))
}

func TestNew_Empty(t *testing.T) {
	c, err := NewDeps(MustDeclare())
	require.NoError(t, err)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, StrategyBorrowed, c.Strategy())
}

func TestGet_Mutable(t *testing.T) {
	c, a, _ := newAB(t)

	ref, err := Get[A](c)
	require.NoError(t, err)

	ref.Get().value = 42
	assert.Equal(t, 42, a.value)
}

func TestGet_NotDeclared(t *testing.T) {
	c, _, _ := newAB(t)

	_, err := Get[C](c)
	assert.ErrorIs(t, err, ErrTypeNotAvailable)

	_, err = GetConst[C](c)
	assert.ErrorIs(t, err, ErrTypeNotAvailable)
}

func TestGet_ConstViolation(t *testing.T) {
	c := Default(MustDeclare(Mut[A](), Const[B]()))

	_, err := Get[B](c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstViolation)

	var cerr *errs.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, CodeConstViolation, cerr.Code)
	assert.Equal(t, "crate.B", cerr.GetContext()["type"])
}

func TestGetConst_Promotion(t *testing.T) {
	c, _, b := newAB(t)

	view, err := GetConst[B](c)
	require.NoError(t, err)

	ref := MustGet[B](c)
	assert.True(t, view.Aliases(ref))

	ref.Get().value = true
	assert.True(t, view.Value().value)
	assert.True(t, b.value)
}

// guarded keeps its lock behind a pointer so copies handed out by a View
// still share it.
type guarded struct {
	mu    *sync.Mutex
	count int
}

func TestView_ValueIsCopy(t *testing.T) {
	c, a, _ := newAB(t)

	snapshot := MustGetConst[A](c).Value()
	snapshot.value = 1

	assert.Equal(t, 1234, a.value)
	assert.Equal(t, 1234, MustGetConst[A](c).Value().value)
}

func TestView_PointerHeldLockIsShared(t *testing.T) {
	g := &guarded{mu: &sync.Mutex{}}

	c, err := NewServices(MustDeclare(Const[guarded]()), AsConst(Share(g)))
	require.NoError(t, err)

	view := MustGetConst[guarded](c)
	snapshot := view.Value()
	assert.Same(t, g.mu, snapshot.mu)

	snapshot.mu.Lock()
	assert.False(t, g.mu.TryLock())
	snapshot.mu.Unlock()
	assert.True(t, g.mu.TryLock())
	g.mu.Unlock()
}

func TestRef_View(t *testing.T) {
	c, _, _ := newAB(t)

	ref := MustGet[A](c)
	assert.True(t, ref.View().Aliases(ref))
	assert.Equal(t, 1234, ref.View().Value().value)
}

func TestMustGet_Panics(t *testing.T) {
	c := Default(MustDeclare(Const[A]()))

	assert.Panics(t, func() {
		MustGet[A](c)
	})

	assert.Panics(t, func() {
		MustGetConst[B](c)
	})

	assert.NotPanics(t, func() {
		MustGetConst[A](c)
	})
}

func TestZeroContainer(t *testing.T) {
	var c Container

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has(Mut[A]()))

	_, err := Get[A](c)
	assert.ErrorIs(t, err, ErrTypeNotAvailable)

	var ref Ref[A]
	assert.Nil(t, ref.Get())

	var view View[A]
	assert.Equal(t, A{}, view.Value())
}

func TestHas(t *testing.T) {
	c := Default(MustDeclare(Mut[A](), Const[B]()))

	assert.True(t, c.Has(Mut[A]()))
	assert.True(t, c.Has(Const[A]()))
	assert.False(t, c.Has(Mut[B]()))
	assert.True(t, c.Has(Const[B]()))
	assert.False(t, c.Has(Mut[C]()))
}

func TestLookup_ReturnsSameHolder(t *testing.T) {
	c, _, _ := newAB(t)

	mut, err := c.Lookup(Mut[A]())
	require.NoError(t, err)

	cst, err := c.Lookup(Const[A]())
	require.NoError(t, err)

	assert.True(t, Same(mut, cst))
}

func TestCopy_Aliases(t *testing.T) {
	c, _, _ := newAB(t)
	cp := c

	MustGet[A](c).Get().value = 7
	assert.Equal(t, 7, MustGetConst[A](cp).Value().value)
}

func TestNarrow(t *testing.T) {
	c, a, _ := newAB(t)

	narrow, err := Narrow(c, MustDeclare(Mut[A]()))
	require.NoError(t, err)

	assert.Equal(t, 1, narrow.Len())
	assert.Same(t, a, MustGet[A](narrow).Get())

	_, err = Get[B](narrow)
	assert.ErrorIs(t, err, ErrTypeNotAvailable)
}

func TestNarrow_ConstFromMutable(t *testing.T) {
	c, _, b := newAB(t)

	narrow, err := Narrow(c, MustDeclare(Const[B](), Mut[A]()))
	require.NoError(t, err)

	_, err = Get[B](narrow)
	assert.ErrorIs(t, err, ErrConstViolation)

	b.value = true
	assert.True(t, MustGetConst[B](narrow).Value().value)
}

func TestNarrow_ConstFromConst(t *testing.T) {
	c := Default(MustDeclare(Const[A]()))

	narrow, err := Narrow(c, MustDeclare(Const[A]()))
	require.NoError(t, err)
	assert.True(t, narrow.Has(Const[A]()))
}

func TestNarrow_MutableFromConst(t *testing.T) {
	c := Default(MustDeclare(Const[A]()))

	_, err := Narrow(c, MustDeclare(Mut[A]()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeNotAvailable)

	var cerr *errs.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "const crate.A", cerr.GetContext()["available"])
}

func TestNarrow_Missing(t *testing.T) {
	c, _, _ := newAB(t)

	_, err := Narrow(c, MustDeclare(Mut[A](), Mut[C](), Const[D]()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeNotAvailable)
	assert.Contains(t, err.Error(), "crate.C")
	assert.Contains(t, err.Error(), "crate.D")
}

func TestNarrow_KeepsStrategy(t *testing.T) {
	a := &A{}

	c, err := NewDeps(MustDeclare(Mut[A](), Mut[B]()), Borrow(a), Borrow(&B{}))
	require.NoError(t, err)

	narrow, err := Narrow(c, MustDeclare(Mut[A]()))
	require.NoError(t, err)

	assert.Equal(t, StrategyBorrowed, narrow.Strategy())
	assert.Same(t, a, MustGet[A](narrow).Get())
}

func TestInterfaceSlot_Mock(t *testing.T) {
	mock := &Mock{}
	var base Base = mock

	c, err := NewServices(MustDeclare(Mut[Base]()), Share(&base))
	require.NoError(t, err)

	(*MustGet[Base](c).Get()).Test()
	assert.True(t, mock.wasCalled)
}

func TestContainer_String(t *testing.T) {
	c := Default(MustDeclare(Mut[A](), Const[B]()))

	assert.Equal(t, "shared{crate.A, const crate.B}", c.String())
}

package semantic

import "testing"

func TestAddAndLookup(t *testing.T) {
	st := NewSymbolTable()
	if err := st.AddSymbol("x", &Symbol{Kind: SymVariable, Type: TypeInt}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sym, ok := st.Lookup("x", false)
	if !ok || sym.Type != TypeInt {
		t.Fatalf("expected to resolve x as int, got %+v, %v", sym, ok)
	}
}

func TestDuplicateInSameScopeIsError(t *testing.T) {
	st := NewSymbolTable()
	if err := st.AddSymbol("x", &Symbol{Kind: SymVariable, Type: TypeInt}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.AddSymbol("x", &Symbol{Kind: SymVariable, Type: TypeInt}); err == nil {
		t.Fatal("expected a duplicate-declaration error")
	}
}

func TestBlockScopeUnwindsOnPop(t *testing.T) {
	st := NewSymbolTable()
	st.PushScope(ScopeBlock)
	if err := st.AddSymbol("x", &Symbol{Kind: SymVariable, Type: TypeInt}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := st.Lookup("x", false); !ok {
		t.Fatal("expected x to resolve inside its block")
	}
	st.PopScope()
	if _, ok := st.Lookup("x", false); ok {
		t.Fatal("expected x to be unresolvable after its block closed")
	}
}

func TestFunctionBarrierHidesOuterVariables(t *testing.T) {
	st := NewSymbolTable()
	if err := st.AddSymbol("g", &Symbol{Kind: SymVariable, Type: TypeInt}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.PushScope(ScopeFunction)
	if err := st.AddSymbol("p", &Symbol{Kind: SymVariable, Type: TypeInt}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := st.Lookup("g", false); ok {
		t.Fatal("expected global variable g to be hidden across the function barrier")
	}
	if _, ok := st.Lookup("p", false); !ok {
		t.Fatal("expected parameter p to resolve inside its own function")
	}
}

func TestFunctionsAlwaysResolveAcrossBarrier(t *testing.T) {
	st := NewSymbolTable()
	if err := st.AddSymbol("f", &Symbol{Kind: SymFunction, Type: TypeInt}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.PushScope(ScopeFunction)
	st.PushScope(ScopeBlock)

	if _, ok := st.Lookup("f", true); !ok {
		t.Fatal("expected function f to resolve from inside a nested function/block")
	}
}

func TestFrameLevelAndIndex(t *testing.T) {
	st := NewSymbolTable()
	if st.CurrentFrameLevel() != 0 {
		t.Fatalf("expected frame level 0 at global scope, got %d", st.CurrentFrameLevel())
	}
	_ = st.AddSymbol("a", &Symbol{Kind: SymVariable, Type: TypeInt})
	_ = st.AddSymbol("b", &Symbol{Kind: SymVariable, Type: TypeInt})
	if st.CurrentFrameIndex() != 2 {
		t.Fatalf("expected next frame index 2, got %d", st.CurrentFrameIndex())
	}

	st.PushScope(ScopeBlock)
	if st.CurrentFrameLevel() != 1 {
		t.Fatalf("expected frame level 1 inside a nested block, got %d", st.CurrentFrameLevel())
	}
	if st.CurrentFrameIndex() != 0 {
		t.Fatalf("expected frame index 0 in a fresh scope, got %d", st.CurrentFrameIndex())
	}
}

func TestArraySymbolReservesContiguousSlots(t *testing.T) {
	st := NewSymbolTable()
	_ = st.AddSymbol("xs", &Symbol{Kind: SymVariable, Type: TypeInt, ArrayLen: 3})
	if st.CurrentFrameIndex() != 3 {
		t.Fatalf("expected array to reserve 3 slots, next index is %d", st.CurrentFrameIndex())
	}
	_ = st.AddSymbol("y", &Symbol{Kind: SymVariable, Type: TypeInt})
	sym, _ := st.Lookup("y", false)
	if sym.FrameIndex != 3 {
		t.Fatalf("expected y to start at frame index 3, got %d", sym.FrameIndex)
	}
}

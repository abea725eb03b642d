package sparse

import "testing"

func TestMatrixSetAndGet(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	if v := M.Value(9, 9); v != M.NullValue() {
		t.Errorf("expected M(9,9) to be null, is %d", v)
	}
	M.Add(2, 3, 123)
	if a, b := M.Values(2, 3); a != 4711 || b != 123 {
		t.Errorf("expected M(2,3) = (4711,123), is (%d,%d)", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 position to be set, have %d", M.ValueCount())
	}
	M.Set(2, 3, 1)
	if a, b := M.Values(2, 3); a != 1 || b != M.NullValue() {
		t.Errorf("expected Set to clear secondary value, is (%d,%d)", a, b)
	}
}

func TestMatrixRow(t *testing.T) {
	M := NewIntMatrix(3, 8, -1)
	M.Set(1, 7, 1).Set(1, 0, 2).Set(2, 4, 3).Set(1, 3, 4)
	cols := M.Row(1)
	if len(cols) != 3 || cols[0] != 0 || cols[1] != 3 || cols[2] != 7 {
		t.Errorf("expected row 1 to have columns [0 3 7], has %v", cols)
	}
}

func TestMatrixOutOfRange(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected out of range access to panic")
		}
	}()
	M := NewIntMatrix(2, 2, -1)
	M.Set(2, 0, 1)
}

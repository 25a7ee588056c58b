package tensor

import "testing"

func TestNewShape(t *testing.T) {
	t1 := New(2, 3)
	if len(t1.Data) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(t1.Data))
	}
	if len(t1.Shape) != 2 || t1.Shape[0] != 2 || t1.Shape[1] != 3 {
		t.Fatalf("unexpected shape: %v", t1.Shape)
	}
}

func TestAdd(t *testing.T) {
	a := &Tensor{Data: []float64{1, 2, 3}, Shape: []int{3}}
	b := &Tensor{Data: []float64{4, 5, 6}, Shape: []int{3}}
	c, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{5, 7, 9}
	for i := range want {
		if c.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, c.Data[i], want[i])
		}
	}
}

func TestAddShapeMismatch(t *testing.T) {
	a := New(3)
	b := New(2)
	if _, err := Add(a, b); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestSubMul(t *testing.T) {
	a := &Tensor{Data: []float64{4, 6}, Shape: []int{2}}
	b := &Tensor{Data: []float64{1, 2}, Shape: []int{2}}
	s, err := Sub(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if s.Data[0] != 3 || s.Data[1] != 4 {
		t.Errorf("unexpected Sub result: %v", s.Data)
	}
	m, err := Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if m.Data[0] != 4 || m.Data[1] != 12 {
		t.Errorf("unexpected Mul result: %v", m.Data)
	}
}

func TestScale(t *testing.T) {
	a := &Tensor{Data: []float64{1, -2}, Shape: []int{2}}
	c := Scale(3, a)
	if c.Data[0] != 3 || c.Data[1] != -6 {
		t.Errorf("unexpected Scale result: %v", c.Data)
	}
}

func TestMatMul(t *testing.T) {
	a := &Tensor{Data: []float64{1, 2, 3, 4}, Shape: []int{2, 2}}
	b := &Tensor{Data: []float64{5, 6, 7, 8}, Shape: []int{2, 2}}
	c, err := MatMul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{19, 22, 43, 50}
	for i := range want {
		if c.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, c.Data[i], want[i])
		}
	}
}

func TestReshape(t *testing.T) {
	a := New(2, 3)
	b, err := a.Reshape(6)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Shape) != 1 || b.Shape[0] != 6 {
		t.Fatalf("unexpected shape: %v", b.Shape)
	}
	if _, err := a.Reshape(4); err == nil {
		t.Fatal("expected element count mismatch error")
	}
}

func TestConcat(t *testing.T) {
	a := NewWithData([]float64{1, 2})
	b := NewWithData([]float64{3})
	c, err := Concat(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2, 3}
	for i := range want {
		if c.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, c.Data[i], want[i])
		}
	}
}

func TestCloneIndependent(t *testing.T) {
	a := NewWithData([]float64{1, 2})
	b := a.Clone()
	b.Data[0] = 9
	if a.Data[0] != 1 {
		t.Fatal("Clone shares backing data")
	}
}

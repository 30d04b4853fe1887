package checksum

import "testing"

func TestSum_KnownValue(t *testing.T) {
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := Sum([]byte("hello")); got != want {
		t.Errorf("Sum(hello) = %s", got)
	}
}

func TestSumJSON_StableForEqualValues(t *testing.T) {
	a, err := SumJSON([]string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := SumJSON([]string{"x", "y"})
	c, _ := SumJSON([]string{"y", "x"})
	if a != b {
		t.Error("equal values produced different sums")
	}
	if a == c {
		t.Error("different values produced the same sum")
	}
}

func TestSumJSON_UnencodableValue(t *testing.T) {
	if _, err := SumJSON(make(chan int)); err == nil {
		t.Error("expected error for channel value")
	}
}

package embed

import (
	"context"
	"math"
	"testing"
)

func norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func TestEmbed_UnitNorm(t *testing.T) {
	h := NewHasher()

	texts := []string{
		"wifi is down again in the hostel",
		"great service",
		"a",
		"the cafeteria food quality has been declining for weeks and nobody listens",
	}
	for _, text := range texts {
		vec, err := h.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
		if len(vec) != Dimension {
			t.Fatalf("Embed(%q): dimension %d, want %d", text, len(vec), Dimension)
		}
		if got := norm(vec); math.Abs(got-1.0) > 1e-6 {
			t.Errorf("Embed(%q): norm %v, want 1.0 within 1e-6", text, got)
		}
	}
}

func TestEmbed_EmptyText_NearZero(t *testing.T) {
	h := NewHasher()

	vec, err := h.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if got := norm(vec); got > 1e-6 {
		t.Errorf("empty text norm = %v, want near zero", got)
	}
}

func TestEmbed_Deterministic(t *testing.T) {
	h := NewHasher()
	ctx := context.Background()

	a, _ := h.Embed(ctx, "Wifi issue in hostel")
	b, _ := h.Embed(ctx, "Wifi issue in hostel")

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestEmbed_CaseInsensitive(t *testing.T) {
	h := NewHasher()
	ctx := context.Background()

	a, _ := h.Embed(ctx, "WIFI Issue")
	b, _ := h.Embed(ctx, "wifi issue")

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("case should not change embedding, differ at %d", i)
		}
	}
}

func TestEmbed_DifferentTextsDiffer(t *testing.T) {
	h := NewHasher()
	ctx := context.Background()

	a, _ := h.Embed(ctx, "wifi outage in the hostel")
	b, _ := h.Embed(ctx, "cafeteria food complaints")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct texts produced identical vectors")
	}
}

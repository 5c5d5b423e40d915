package av

import (
	"errors"
	"testing"
)

func TestGetVideoDecoderMissingReturnsStructuralError(t *testing.T) {
	_, err := GetVideoDecoder(NewFourCC("????"))
	if err == nil {
		t.Fatal("expected an error for an unregistered FourCC")
	}
	if !IsKind(err, ErrStructural) {
		t.Fatalf("expected ErrStructural, got %v", err)
	}
	if !errors.Is(err, ErrNoSuchDecoder) {
		t.Fatalf("expected wrapped ErrNoSuchDecoder, got %v", err)
	}
}

func TestRegistryFiltersDisabledCodec(t *testing.T) {
	id := NewFourCC("TEST")
	RegisterVideoDecoder(VideoDecoderEntry{
		ID: id,
		New: func(h Headers, w, hh int) (VideoDecoder, error) {
			return nil, nil
		},
	})

	// Unfiltered lookup succeeds.
	if _, err := GetVideoDecoder(id); err != nil {
		t.Fatalf("expected registered decoder to be found: %v", err)
	}

	cfg := DefaultConfig()
	cfg.DisabledCodecs = []FourCC{id}
	reg := NewRegistry(cfg)
	if _, err := reg.GetVideoDecoder(id); err == nil {
		t.Fatal("expected disabled decoder to be excluded from filtered registry")
	}

	// The unfiltered default registry is unaffected by another
	// registry's config.
	reg2 := NewRegistry(DefaultConfig())
	if _, err := reg2.GetVideoDecoder(id); err != nil {
		t.Fatalf("expected decoder present in unfiltered registry: %v", err)
	}
}

func TestGetContainerMissingReturnsStructuralError(t *testing.T) {
	_, err := GetContainer("application/x-does-not-exist")
	if !IsKind(err, ErrStructural) {
		t.Fatalf("expected ErrStructural, got %v", err)
	}
}

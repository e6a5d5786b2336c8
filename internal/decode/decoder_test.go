package decode

import (
	"errors"
	"testing"
)

func TestJoinOptionsSortsPairs(t *testing.T) {
	got := joinOptions(map[string]string{"flags": "+low_delay", "buffer_size": "1048576"})
	want := "buffer_size=1048576 flags=+low_delay"
	if got != want {
		t.Fatalf("joinOptions = %q, want %q", got, want)
	}
}

func TestKindFatalClassification(t *testing.T) {
	if NoFramesYet.Fatal() {
		t.Fatalf("NoFramesYet must not be fatal")
	}
	for _, k := range []Kind{Demux, FrameFormat, ImageConvert, NoSuchStream, Egress} {
		if !k.Fatal() {
			t.Fatalf("%s must be fatal", k)
		}
	}
}

func TestAsKindExtractsTaggedKind(t *testing.T) {
	err := newError(ImageConvert, errors.New("scale failed"))
	if AsKind(err) != ImageConvert {
		t.Fatalf("AsKind = %v, want ImageConvert", AsKind(err))
	}
}

func TestAsKindDefaultsToDemuxForUntaggedErrors(t *testing.T) {
	if AsKind(errors.New("raw ffmpeg failure")) != Demux {
		t.Fatalf("AsKind should default to Demux for an untagged error")
	}
}

package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/smazurov/mjpeggrab/internal/events"
	"github.com/smazurov/mjpeggrab/internal/logging"
)

func TestParseResolution(t *testing.T) {
	tests := []struct {
		input   string
		width   int
		height  int
		wantErr bool
	}{
		{"1280x720", 1280, 720, false},
		{"640x480", 640, 480, false},
		{"1920X1080", 1920, 1080, false},
		{"1280", 0, 0, true},
		{"x720", 0, 0, true},
		{"1280x", 0, 0, true},
		{"axb", 0, 0, true},
		{"0x480", 0, 0, true},
		{"-640x480", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			w, h, err := parseResolution(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseResolution(%q) expected error, got %dx%d", tt.input, w, h)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResolution(%q) error: %v", tt.input, err)
			}
			if w != tt.width || h != tt.height {
				t.Errorf("parseResolution(%q) = %dx%d, want %dx%d", tt.input, w, h, tt.width, tt.height)
			}
		})
	}
}

func TestLogFinishDrainsFrameEvents(t *testing.T) {
	bus := events.New()
	var framesLogged atomic.Uint64
	unsub := bus.Subscribe(func(events.FrameCapturedEvent) {
		framesLogged.Add(1)
	})
	defer unsub()

	finished := make(chan events.CaptureFinishedEvent, 1)
	unsubFin := bus.Subscribe(func(e events.CaptureFinishedEvent) {
		select {
		case finished <- e:
		default:
		}
	})
	defer unsubFin()

	for i := 0; i < 3; i++ {
		bus.Publish(events.FrameCapturedEvent{Bytes: 16, Remaining: uint(2 - i)})
	}
	bus.Publish(events.CaptureFinishedEvent{Frames: 3})

	logFinish(finished, &framesLogged, logging.GetLogger("main"), "out.mjpeg")

	if got := framesLogged.Load(); got != 3 {
		t.Errorf("frame events delivered before return = %d, want 3", got)
	}
}

func TestLogFinishTimesOutWithoutEvent(t *testing.T) {
	finished := make(chan events.CaptureFinishedEvent)
	var framesLogged atomic.Uint64

	done := make(chan struct{})
	go func() {
		logFinish(finished, &framesLogged, logging.GetLogger("main"), "out.mjpeg")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("logFinish blocked past its timeout with no completion event")
	}
}

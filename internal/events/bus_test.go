package events

import (
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan FrameCapturedEvent, 1)

	unsub := bus.Subscribe(func(e FrameCapturedEvent) {
		received <- e
	})
	defer unsub()

	event := FrameCapturedEvent{
		DevicePath: "/dev/video0",
		OutputPath: "out.jpg",
		Bytes:      51234,
		Remaining:  4,
		Timestamp:  "2026-08-31T10:30:00Z",
	}
	bus.Publish(event)

	got := <-received
	if got.DevicePath != event.DevicePath {
		t.Errorf("Expected device path %s, got %s", event.DevicePath, got.DevicePath)
	}
	if got.Bytes != event.Bytes {
		t.Errorf("Expected %d bytes, got %d", event.Bytes, got.Bytes)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan DeviceChangeEvent, 1)
	received2 := make(chan DeviceChangeEvent, 1)

	unsub1 := bus.Subscribe(func(e DeviceChangeEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e DeviceChangeEvent) {
		received2 <- e
	})
	defer unsub2()

	event := DeviceChangeEvent{
		Action:     "add",
		DevicePath: "/dev/video2",
	}
	bus.Publish(event)

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan CaptureFinishedEvent, 1)

	unsub := bus.Subscribe(func(e CaptureFinishedEvent) {
		received <- e
	})

	bus.Publish(CaptureFinishedEvent{DevicePath: "/dev/video0", Frames: 1})
	<-received

	unsub()

	bus.Publish(CaptureFinishedEvent{DevicePath: "/dev/video1", Frames: 2})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
		// Expected - no event
	}
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()

	// Unrecognized handler type yields a usable no-op unsubscribe
	unsub := bus.Subscribe(func(s string) {})
	unsub()
}

package events

import (
	"context"
	"testing"
	"time"
)

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.PublishAttemptSubmitted(context.Background(), AttemptSubmitted{AttemptID: "a", SubmittedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
}

func TestNewRabbitPublisher_BadURL(t *testing.T) {
	if _, err := NewRabbitPublisher("http://not-amqp", "q"); err == nil {
		t.Fatal("non-amqp url accepted")
	}
}

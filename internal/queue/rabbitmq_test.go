package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nackCall struct {
	tag     uint64
	requeue bool
}

// fakeAcknowledger records ack and nack calls so delivery handling can be
// exercised without a broker.
type fakeAcknowledger struct {
	acks  []uint64
	nacks []nackCall
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.acks = append(a.acks, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.nacks = append(a.nacks, nackCall{tag: tag, requeue: requeue})
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacks = append(a.nacks, nackCall{tag: tag, requeue: requeue})
	return nil
}

func delivery(t *testing.T, ack *fakeAcknowledger, job *Job) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(job)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: body}
}

func TestFilterDeliveryReadyJob(t *testing.T) {
	t.Parallel()

	ack := &fakeAcknowledger{}
	want := NewJob(JobTypeGoalDecomposition, uuid.New(), nil)

	got, err := filterDelivery(delivery(t, ack, want))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Type, got.Type)
	assert.Empty(t, ack.acks)
	assert.Empty(t, ack.nacks)
}

func TestFilterDeliveryMalformedBodyDeadLetters(t *testing.T) {
	t.Parallel()

	ack := &fakeAcknowledger{}
	got, err := filterDelivery(amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte("{not json")})
	require.Error(t, err)
	assert.Nil(t, got)
	require.Len(t, ack.nacks, 1)
	assert.Equal(t, nackCall{tag: 7, requeue: false}, ack.nacks[0])
}

func TestFilterDeliveryExpiredJobDeadLetters(t *testing.T) {
	t.Parallel()

	ack := &fakeAcknowledger{}
	job := NewJob(JobTypeGoalDecomposition, uuid.New(), nil)
	past := time.Now().Add(-time.Hour)
	job.NotAfter = &past

	got, err := filterDelivery(delivery(t, ack, job))
	require.NoError(t, err)
	assert.Nil(t, got)
	require.Len(t, ack.nacks, 1)
	assert.False(t, ack.nacks[0].requeue)
}

func TestFilterDeliveryNotReadyJobRequeues(t *testing.T) {
	t.Parallel()

	ack := &fakeAcknowledger{}
	job := NewJob(JobTypeRoadmapGeneration, uuid.New(), nil)
	future := time.Now().Add(time.Hour)
	job.NotBefore = &future

	got, err := filterDelivery(delivery(t, ack, job))
	require.NoError(t, err)
	assert.Nil(t, got)
	require.Len(t, ack.nacks, 1)
	assert.Equal(t, nackCall{tag: 7, requeue: true}, ack.nacks[0])
}

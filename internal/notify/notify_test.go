package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakePublisher struct {
	inputs  []*sns.PublishInput
	ctxErrs []error
	dls     []bool
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	_, ok := ctx.Deadline()
	f.dls = append(f.dls, ok)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSNSNotifier_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	n := NewSNSNotifier(pub, "arn:aws:sns:us-east-1:123456789012:stylane", zap.NewNop())

	n.Notify(context.Background(), "User Login", "User admin has logged in.")

	require.Len(t, pub.inputs, 1)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:stylane", aws.ToString(pub.inputs[0].TopicArn))
	assert.Equal(t, "User Login", aws.ToString(pub.inputs[0].Subject))
	assert.Equal(t, "User admin has logged in.", aws.ToString(pub.inputs[0].Message))
}

func TestSNSNotifier_SwallowsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	pub := &fakePublisher{err: errors.New("throttled")}
	n := NewSNSNotifier(pub, "arn:topic", zap.New(core))

	assert.NotPanics(t, func() { n.Notify(context.Background(), "New Product", "Product Hoodie added.") })
	assert.Equal(t, 1, logs.FilterMessage("sns publish failed").Len())
}

func TestSNSNotifier_OutlivesCanceledRequest(t *testing.T) {
	pub := &fakePublisher{}
	n := NewSNSNotifier(pub, "arn:topic", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Notify(ctx, "Restock Request", "Store A requested 10 units.")

	require.Len(t, pub.inputs, 1)
	assert.NoError(t, pub.ctxErrs[0])
	assert.True(t, pub.dls[0])
}

func TestNew_FallsBackToLog(t *testing.T) {
	n, err := New(context.Background(), "us-east-1", "", zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogNotifier{}, n)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewLogNotifier(zap.New(core)).Notify(context.Background(), "New Product", "Product Hoodie added.")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "New Product", entries[0].ContextMap()["subject"])
}

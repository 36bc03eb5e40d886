// Package notify delivers fire-and-forget operator notifications.
package notify

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// Notifier publishes a short message. Failures are logged, never returned:
// a missed notification must not fail the request that triggered it.
type Notifier interface {
	Notify(ctx context.Context, subject, message string)
}

// Publisher is the part of the SNS client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

const publishTimeout = 3 * time.Second

// SNSNotifier publishes to an SNS topic.
type SNSNotifier struct {
	client   Publisher
	topicARN string
	log      *zap.Logger
}

func NewSNSNotifier(client Publisher, topicARN string, log *zap.Logger) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN, log: log}
}

// Notify publishes detached from the caller's cancellation, bounded by publishTimeout.
func (n *SNSNotifier) Notify(ctx context.Context, subject, message string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		n.log.Warn("sns publish failed",
			zap.String("subject", subject),
			zap.String("topic", n.topicARN),
			zap.Error(err))
	}
}

// LogNotifier only logs; it stands in when no topic is configured.
type LogNotifier struct{ log *zap.Logger }

func NewLogNotifier(log *zap.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (n *LogNotifier) Notify(_ context.Context, subject, message string) {
	n.log.Info("notification (simulated)", zap.String("subject", subject), zap.String("message", message))
}

// New returns an SNS notifier when topicARN is set, otherwise a LogNotifier.
func New(ctx context.Context, region, topicARN string, log *zap.Logger) (Notifier, error) {
	if topicARN == "" {
		return NewLogNotifier(log), nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewSNSNotifier(sns.NewFromConfig(awsCfg), topicARN, log), nil
}

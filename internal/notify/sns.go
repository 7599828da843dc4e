// Package notify pushes new-match notifications through SNS. It is a plain
// subscriber of the event dispatcher; the engine works unchanged when it is
// disabled.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/engine/events"
	"matching-engine/internal/models"
)

type SNSNotifier struct {
	client   *sns.Client
	topicARN string
	logger   logger.Logger
}

func NewSNSNotifier(ctx context.Context, region, topicARN string, log logger.Logger) (*SNSNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSNotifier{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "notify"}),
	}, nil
}

// Subscribe hooks the notifier into the dispatcher.
func (n *SNSNotifier) Subscribe(dispatcher *events.Dispatcher) {
	dispatcher.OnMatchFormed(n.handleMatch)
}

type matchNotification struct {
	MatchID   string    `json:"matchId"`
	ProfileID string    `json:"profileId"`
	CreatedAt time.Time `json:"createdAt"`
	Source    string    `json:"source"`
}

func (n *SNSNotifier) handleMatch(match models.Match, source events.MatchSource) {
	payload, err := json.Marshal(matchNotification{
		MatchID:   match.MatchID,
		ProfileID: match.ProfileID,
		CreatedAt: match.CreatedAt,
		Source:    string(source),
	})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		n.logger.Error("failed to publish match notification", map[string]interface{}{
			"matchId": match.MatchID,
			"error":   err,
		})
		return
	}

	n.logger.Info("match notification published", map[string]interface{}{
		"matchId": match.MatchID,
	})
}

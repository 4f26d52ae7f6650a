package metrics

import (
	"context"
	"time"

	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "Harmonix/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      *cloudwatch.Client
	enabled     bool
	environment string
}

// NewClient creates a new CloudWatch metrics client
func NewClient(ctx context.Context, environment string) (*Client, error) {
	// Only enable in production
	if environment != "production" {
		logger.Debug("CloudWatch metrics disabled", logger.Fields{"environment": environment})
		return &Client{
			enabled:     false,
			environment: environment,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Warn("Failed to load AWS config for CloudWatch", logger.Fields{"error": err.Error()})
		return &Client{enabled: false, environment: environment}, nil
	}

	logger.Info("CloudWatch metrics enabled", logger.Fields{"namespace": namespace})
	return &Client{
		client:      cloudwatch.NewFromConfig(cfg),
		enabled:     true,
		environment: environment,
	}, nil
}

// Enabled reports whether metrics are actually sent
func (m *Client) Enabled() bool {
	return m != nil && m.enabled
}

// RecordAPIRequest records an API request metric
func (m *Client) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.Enabled() {
		return
	}

	go func() {
		metricName := "APIRequests"
		if statusCode >= httpStatusServerError {
			metricName = "APIErrors"
		}

		dimensions := m.dimensions("Endpoint", endpoint)
		m.put(metricName, 1, types.StandardUnitCount, dimensions)
		m.put("APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
	}()
}

// RecordProviderCall records the duration of a call to an upstream provider
func (m *Client) RecordProviderCall(_ context.Context, provider, operation string, duration time.Duration, success bool) {
	if !m.Enabled() {
		return
	}

	go func() {
		dimensions := append(m.dimensions("Provider", provider),
			types.Dimension{Name: aws.String("Operation"), Value: aws.String(operation)},
			types.Dimension{Name: aws.String("Success"), Value: aws.String(boolToString(success))},
		)
		m.put("ProviderDuration", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
	}()
}

// RecordTokenUsage records LLM token usage
func (m *Client) RecordTokenUsage(_ context.Context, provider, model string, inputTokens, outputTokens int64) {
	if !m.Enabled() {
		return
	}

	go func() {
		dimensions := append(m.dimensions("Provider", provider),
			types.Dimension{Name: aws.String("Model"), Value: aws.String(model)},
		)
		m.put("LLMTokens/Input", float64(inputTokens), types.StandardUnitCount, dimensions)
		m.put("LLMTokens/Output", float64(outputTokens), types.StandardUnitCount, dimensions)
	}()
}

func (m *Client) dimensions(name, value string) []types.Dimension {
	return []types.Dimension{
		{
			Name:  aws.String(name),
			Value: aws.String(value),
		},
		{
			Name:  aws.String("Environment"),
			Value: aws.String(m.environment),
		},
	}
}

func (m *Client) put(metricName string, value float64, unit types.StandardUnit, dimensions []types.Dimension) {
	if err := m.putMetric(metricName, value, unit, dimensions); err != nil {
		logger.Warn("Failed to record metric", logger.Fields{"metric": metricName, "error": err.Error()})
	}
}

// putMetric sends a metric to CloudWatch
func (m *Client) putMetric(
	metricName string,
	value float64,
	unit types.StandardUnit,
	dimensions []types.Dimension,
) error {
	if !m.enabled || m.client == nil {
		return nil
	}

	// Detached from the request so a finished request does not cancel the put
	cwCtx, cancel := context.WithTimeout(context.Background(), cloudwatchTimeoutSeconds*time.Second)
	defer cancel()

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dimensions,
			},
		},
	})

	return err
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

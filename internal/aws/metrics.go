package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// maxDatumsPerCall is the PutMetricData batch limit.
const maxDatumsPerCall = 1000

// Metrics writes custom metrics into one CloudWatch namespace.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
}

// NewMetrics returns a Metrics bound to a namespace.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{CloudWatch: cw, Namespace: namespace}
}

// Put sends datums in as few PutMetricData calls as the batch limit allows.
func (m *Metrics) Put(ctx context.Context, datums []cwtypes.MetricDatum) error {
	for start := 0; start < len(datums); start += maxDatumsPerCall {
		end := min(start+maxDatumsPerCall, len(datums))
		_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  &m.Namespace,
			MetricData: datums[start:end],
		})
		if err != nil {
			return fmt.Errorf("put metric data: %w", err)
		}
	}
	return nil
}

package checkout

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
)

// PaymentCapturer asks the external card terminal collaborator to capture
// an amount. The call only initiates the capture; the terminal reports its
// completion asynchronously through the payment result subscriber.
type PaymentCapturer interface {
	RequestCapture(ctx context.Context, amount float64, reference string) error
}

// CaptureClient reaches the payment service over HTTP. No timeout is
// imposed here; the capture service's own policy governs.
type CaptureClient struct {
	client *apt.ServiceClient
	logger apt.Logger
}

func NewCaptureClient(url string, logger apt.Logger) *CaptureClient {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	var client *apt.ServiceClient
	if url != "" {
		client = apt.NewServiceClient(url)
	}
	return &CaptureClient{client: client, logger: logger}
}

func (c *CaptureClient) RequestCapture(ctx context.Context, amount float64, reference string) error {
	if c.client == nil {
		return fmt.Errorf("payment capture service not configured")
	}

	body := map[string]interface{}{
		"amount":    amount,
		"reference": reference,
	}
	if _, err := c.client.Request(ctx, "POST", "/captures", body); err != nil {
		return fmt.Errorf("cannot request card capture: %w", err)
	}

	c.logger.Info("card capture requested", "amount", amount, "reference", reference)
	return nil
}

package push

import (
	"context"
	"io"

	"mediremind/config"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// vapidSender is the production WebPushSender. It signs each message with the
// configured VAPID key pair.
type vapidSender struct{}

func (s *vapidSender) Send(ctx context.Context, sub *webpush.Subscription, message []byte) (int, error) {
	cfg := config.AppConfig
	if cfg.VapidPublicKey == "" || cfg.VapidPrivateKey == "" {
		return 0, ErrMissingVapidKeys
	}

	resp, err := webpush.SendNotificationWithContext(ctx, message, sub, &webpush.Options{
		Subscriber:      cfg.VapidSubscriber,
		VAPIDPublicKey:  cfg.VapidPublicKey,
		VAPIDPrivateKey: cfg.VapidPrivateKey,
		TTL:             60 * 60 * 24,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wxtools/zipcast/internal/config"
)

var ErrKeyWithoutWebhook = errors.New("a narration key requires at least one webhook target")

// Narrator turns forecast text into a spoken script and synthesizes it to an
// audio file. The returned file path is owned by the caller.
type Narrator interface {
	GenerateScript(ctx context.Context, forecastText string) (string, error)
	Synthesize(ctx context.Context, script string) (string, error)
}

// Poster delivers a message, optionally with an audio attachment, to one
// webhook URL.
type Poster interface {
	Post(ctx context.Context, url, text, audioPath string) error
}

// DeliveryService routes the rendered forecast to stdout or to webhooks,
// narrating it first when a Narrator is configured.
type DeliveryService struct {
	Narrator Narrator // nil when no narration key is set
	Webhook  Poster
	Targets  []string
	Out      io.Writer // defaults to os.Stdout
}

// ValidateDelivery rejects flag combinations before any network I/O happens.
func ValidateDelivery(narrationKey string, targets []string) error {
	if narrationKey != "" && len(targets) == 0 {
		return ErrKeyWithoutWebhook
	}
	return nil
}

// Deliver writes text to stdout when no webhooks are configured. With
// webhooks it posts the text to every target, attaching narrated audio when a
// Narrator is present. The temporary audio file is removed on every exit path
// once it exists.
func (s *DeliveryService) Deliver(ctx context.Context, text string) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	if len(s.Targets) == 0 {
		_, err := fmt.Fprintln(out, text)
		return err
	}

	log := config.GetLogger()

	audioPath := ""
	if s.Narrator != nil {
		script, err := s.Narrator.GenerateScript(ctx, text)
		if err != nil {
			return err
		}
		log.Infow("Narration script generated", "chars", len(script))

		audioPath, err = s.Narrator.Synthesize(ctx, script)
		if err != nil {
			return err
		}
		log.Infow("Audio synthesized", "path", audioPath)

		defer func() {
			if err := os.Remove(audioPath); err != nil {
				log.Warnw("Failed to remove audio file", "path", audioPath, "error", err)
				return
			}
			log.Infow("Audio file cleaned up", "path", audioPath)
		}()
	}

	for _, target := range s.Targets {
		if err := s.Webhook.Post(ctx, target, text, audioPath); err != nil {
			return fmt.Errorf("delivering to %s: %w", target, err)
		}
		log.Infow("Delivered to webhook", "target", target)
	}

	return nil
}

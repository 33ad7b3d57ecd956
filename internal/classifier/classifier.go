// Package classifier talks to the pretrained sentiment model.
//
// The model runs outside this process. HTTPClassifier calls an inference API that
// speaks the Hugging Face text-classification format; CachedClassifier memoizes
// results by text fingerprint so repeated inputs skip the remote call.
package classifier

import (
	"context"
	"errors"

	"sentiment-rest-api/internal/model"
)

var (
	// ErrUnavailable means the model could not be reached or is still loading.
	ErrUnavailable = errors.New("sentiment model unavailable")

	// ErrNoPrediction means the model answered without any class.
	ErrNoPrediction = errors.New("sentiment model returned no prediction")
)

// Classifier returns the top sentiment class for a text.
type Classifier interface {
	Classify(ctx context.Context, text string) (model.Classification, error)
	// Name identifies the underlying model.
	Name() string
}

// top picks the highest scoring class.
func top(scores []model.Classification) (model.Classification, error) {
	if len(scores) == 0 {
		return model.Classification{}, ErrNoPrediction
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best, nil
}

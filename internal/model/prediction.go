package model

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Text string `json:"text"`
}

// Classification is the top class returned by the sentiment model.
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Prediction is the response of POST /predict.
type Prediction struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

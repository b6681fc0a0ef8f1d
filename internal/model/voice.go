// internal/model/voice.go
package model

type Voice struct {
	Name    string `db:"name" json:"name"`
	VoiceID string `db:"voice_id" json:"voice_id"`
}

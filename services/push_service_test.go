package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformArnRouting(t *testing.T) {
	p := &PushService{fcmPlatformArn: "arn:fcm", apnsPlatformArn: "arn:apns"}

	arn, err := p.platformArn("android")
	require.NoError(t, err)
	assert.Equal(t, "arn:fcm", arn)

	arn, err = p.platformArn("iOS")
	require.NoError(t, err)
	assert.Equal(t, "arn:apns", arn)
}

func TestPlatformArnIOSFallsBackToFCM(t *testing.T) {
	p := &PushService{fcmPlatformArn: "arn:fcm"}

	arn, err := p.platformArn("ios")
	require.NoError(t, err)
	assert.Equal(t, "arn:fcm", arn)
}

func TestPlatformArnErrors(t *testing.T) {
	p := &PushService{}

	_, err := p.platformArn("android")
	assert.Error(t, err)
	_, err = p.platformArn("ios")
	assert.Error(t, err)
	_, err = p.platformArn("blackberry")
	assert.Error(t, err)
}

func TestPushPayloadPerPlatformStrings(t *testing.T) {
	raw, err := pushPayload("Diet limit exceeded", "PHE over daily limit", map[string]string{"type": "breach"})
	require.NoError(t, err)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "PHE over daily limit", envelope["default"])

	// platform keys must be JSON strings, not nested objects
	var gcm struct {
		Notification map[string]string `json:"notification"`
		Data         map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(envelope["GCM"]), &gcm))
	assert.Equal(t, "Diet limit exceeded", gcm.Notification["title"])
	assert.Equal(t, "breach", gcm.Data["type"])

	var apns map[string]any
	require.NoError(t, json.Unmarshal([]byte(envelope["APNS"]), &apns))
	assert.Contains(t, apns, "aps")
}

package utils

import (
	"os"

	"github.com/pion/webrtc/v3"
)

// GetWebRTCConfig builds the ICE server configuration handed to clients
// before they start call signaling.
func GetWebRTCConfig() webrtc.Configuration {
	stunServers := []string{
		"stun:stun.l.google.com:19302",
		"stun:stun1.l.google.com:19302",
	}
	if customSTUN := os.Getenv("STUN_SERVERS"); customSTUN != "" {
		stunServers = []string{customSTUN}
	}

	var iceServers []webrtc.ICEServer
	for _, stun := range stunServers {
		iceServers = append(iceServers, webrtc.ICEServer{
			URLs: []string{stun},
		})
	}

	if turnURL := os.Getenv("TURN_URL"); turnURL != "" {
		iceServers = append(iceServers, webrtc.ICEServer{
			URLs:       []string{turnURL},
			Username:   os.Getenv("TURN_USERNAME"),
			Credential: os.Getenv("TURN_PASSWORD"),
		})
	}

	return webrtc.Configuration{
		ICEServers:         iceServers,
		ICETransportPolicy: webrtc.ICETransportPolicyAll,
		BundlePolicy:       webrtc.BundlePolicyMaxBundle,
		RTCPMuxPolicy:      webrtc.RTCPMuxPolicyRequire,
	}
}

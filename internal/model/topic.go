package model

var (
	BridgeRequestTopic = "bridge_request"
	BridgeStatusTopic  = "bridge_status"
)

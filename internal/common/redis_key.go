package common

import "fmt"

// RedisKeyBridgeStatus holds the latest status event of a bridge request.
func RedisKeyBridgeStatus(bridgeID string) string {
	return fmt.Sprintf("bridge:status:%s", bridgeID)
}

// RedisKeyBridgeProcessing marks a bridge request as owned by a processor.
func RedisKeyBridgeProcessing(bridgeID string) string {
	return fmt.Sprintf("bridge:processing:%s", bridgeID)
}

package model

type CreateBridgeRequest struct {
	NFTID       string `json:"nft_id"`
	SourceChain string `json:"source_chain"`
	TargetChain string `json:"target_chain"`

	// TargetAddress receives the nft on the target chain. It defaults to the
	// current owner address.
	TargetAddress string `json:"target_address"`
}

type CreateBridgeResponse struct {
	Bridge BridgeRequest `json:"bridge"`
}

type GetBridgeRequest struct {
	ID string `json:"id"`
}

type GetBridgeResponse struct {
	Bridge BridgeRequest `json:"bridge"`
}

type GetListBridgeRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListBridgeResponse struct {
	Bridges []BridgeRequest `json:"bridges"`
}

type ServeBridgeStatusRequest struct {
	ID string `json:"id"`
}

// BridgeRequestEvent is the payload of the bridge_request topic.
type BridgeRequestEvent struct {
	BridgeID string `json:"bridge_id"`
}

// BridgeStatusEvent is the payload of the bridge_status topic and of the
// websocket stream.
type BridgeStatusEvent struct {
	BridgeID      string `json:"bridge_id"`
	Status        string `json:"status"`
	LockTxHash    string `json:"lock_tx_hash,omitempty"`
	MintTxHash    string `json:"mint_tx_hash,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	UpdatedAt     string `json:"updated_at"`
}

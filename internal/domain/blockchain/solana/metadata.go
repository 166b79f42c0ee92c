package solana

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// TokenMetadataProgramID is the Metaplex token metadata program.
var TokenMetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const (
	createMetadataAccountV3 uint8 = 33

	maxNameLength   = 32
	maxSymbolLength = 10
	maxURILength    = 200
)

// Metadata is the on-chain part of a token's metadata. The creator receives
// the whole royalty share.
type Metadata struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creator              solana.PublicKey
}

func FindMetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{
		[]byte("metadata"),
		TokenMetadataProgramID.Bytes(),
		mint.Bytes(),
	}, TokenMetadataProgramID)
	return address, err
}

// NewCreateMetadataInstruction builds CreateMetadataAccountV3 for mint.
// authority is the mint authority, update authority and verified creator.
func NewCreateMetadataInstruction(
	meta Metadata, mint, authority, payer solana.PublicKey,
) (solana.Instruction, error) {
	if len(meta.Name) > maxNameLength || len(meta.Symbol) > maxSymbolLength || len(meta.URI) > maxURILength {
		return nil, fmt.Errorf("metadata too long: name=%d symbol=%d uri=%d",
			len(meta.Name), len(meta.Symbol), len(meta.URI))
	}

	metadataAccount, err := FindMetadataAddress(mint)
	if err != nil {
		return nil, err
	}

	data, err := encodeCreateMetadata(meta)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(TokenMetadataProgramID, solana.AccountMetaSlice{
		solana.Meta(metadataAccount).WRITE(),
		solana.Meta(mint),
		solana.Meta(authority).SIGNER(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SysVarRentPubkey),
	}, data), nil
}

func encodeCreateMetadata(meta Metadata) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := &borshWriter{enc: bin.NewBorshEncoder(buf)}

	w.u8(createMetadataAccountV3)

	// DataV2
	w.str(meta.Name)
	w.str(meta.Symbol)
	w.str(meta.URI)
	w.u16(meta.SellerFeeBasisPoints)

	// creators: Some([{creator, verified, 100}])
	w.boolean(true)
	w.u32(1)
	w.raw(meta.Creator.Bytes())
	w.boolean(true)
	w.u8(100)

	w.boolean(false) // collection
	w.boolean(false) // uses

	w.boolean(true)  // is_mutable
	w.boolean(false) // collection_details

	if w.err != nil {
		return nil, w.err
	}

	return buf.Bytes(), nil
}

// borshWriter keeps the first encoding error.
type borshWriter struct {
	enc *bin.Encoder
	err error
}

func (w *borshWriter) u8(v uint8) {
	if w.err == nil {
		w.err = w.enc.WriteUint8(v)
	}
}

func (w *borshWriter) u16(v uint16) {
	if w.err == nil {
		w.err = w.enc.WriteUint16(v, binary.LittleEndian)
	}
}

func (w *borshWriter) u32(v uint32) {
	if w.err == nil {
		w.err = w.enc.WriteUint32(v, binary.LittleEndian)
	}
}

func (w *borshWriter) boolean(v bool) {
	if w.err == nil {
		w.err = w.enc.WriteBool(v)
	}
}

func (w *borshWriter) raw(b []byte) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(b, false)
	}
}

func (w *borshWriter) str(s string) {
	w.u32(uint32(len(s)))
	w.raw([]byte(s))
}

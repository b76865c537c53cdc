package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// Minimal legacy transaction codec. Covers the two operations this
// system performs itself: building a System Program transfer (funding a
// fresh pool wallet from the master wallet) and co-signing a serialized
// transaction returned by the launch platform. Everything else about
// transaction structure is left to the platform that built it.

const signatureSize = 64

// transferInstructionIndex is the System Program instruction tag for Transfer.
const transferInstructionIndex = 2

// encodeCompactU16 appends a compact-u16 (shortvec) length prefix.
func encodeCompactU16(buf *bytes.Buffer, n int) {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n == 0 {
			buf.WriteByte(b)
			return
		}
		buf.WriteByte(b | 0x80)
	}
}

// decodeCompactU16 reads a compact-u16 value, returning the value and
// the number of bytes consumed.
func decodeCompactU16(data []byte) (int, int, error) {
	value := 0
	shift := 0
	for i := 0; i < len(data) && i < 3; i++ {
		value |= int(data[i]&0x7f) << shift
		if data[i]&0x80 == 0 {
			return value, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("malformed compact-u16")
}

// BuildTransfer builds and signs a System Program transfer from the
// keypair to the destination address, returning the base64-serialized
// transaction ready for SendTransaction.
func BuildTransfer(from *Keypair, to string, lamports uint64, recentBlockhash string) (string, error) {
	toKey, err := base58.Decode(to)
	if err != nil || len(toKey) != ed25519.PublicKeySize {
		return "", fmt.Errorf("invalid destination address %q", to)
	}
	blockhash, err := base58.Decode(recentBlockhash)
	if err != nil || len(blockhash) != 32 {
		return "", fmt.Errorf("invalid blockhash %q", recentBlockhash)
	}
	programKey, err := base58.Decode(SystemProgramID)
	if err != nil {
		return "", fmt.Errorf("decode system program id: %w", err)
	}

	// Message: header, account keys, blockhash, instructions
	var msg bytes.Buffer
	msg.WriteByte(1) // numRequiredSignatures
	msg.WriteByte(0) // numReadonlySignedAccounts
	msg.WriteByte(1) // numReadonlyUnsignedAccounts (system program)

	encodeCompactU16(&msg, 3)
	msg.Write(from.PublicKeyBytes())
	msg.Write(toKey)
	msg.Write(programKey)

	msg.Write(blockhash)

	// Single transfer instruction
	var data bytes.Buffer
	binary.Write(&data, binary.LittleEndian, uint32(transferInstructionIndex))
	binary.Write(&data, binary.LittleEndian, lamports)

	encodeCompactU16(&msg, 1)
	msg.WriteByte(2) // program id index
	encodeCompactU16(&msg, 2)
	msg.WriteByte(0) // from
	msg.WriteByte(1) // to
	encodeCompactU16(&msg, data.Len())
	msg.Write(data.Bytes())

	signature := from.Sign(msg.Bytes())

	var tx bytes.Buffer
	encodeCompactU16(&tx, 1)
	tx.Write(signature)
	tx.Write(msg.Bytes())

	return base64.StdEncoding.EncodeToString(tx.Bytes()), nil
}

// CoSign signs a base64-serialized legacy transaction with each signer,
// placing every signature at the slot matching the signer's position in
// the message account keys. Signers whose key is not among the required
// signer accounts produce an error: the platform built a transaction
// for different parties.
func CoSign(txBase64 string, signers ...*Keypair) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(txBase64)
	if err != nil {
		return "", fmt.Errorf("decode transaction: %w", err)
	}

	sigCount, sigPrefixLen, err := decodeCompactU16(raw)
	if err != nil {
		return "", fmt.Errorf("parse signature count: %w", err)
	}
	msgStart := sigPrefixLen + sigCount*signatureSize
	if len(raw) < msgStart {
		return "", fmt.Errorf("truncated transaction: %d bytes", len(raw))
	}
	message := raw[msgStart:]

	numRequired, keys, err := parseMessageAccounts(message)
	if err != nil {
		return "", err
	}
	if sigCount != numRequired {
		return "", fmt.Errorf("signature slots %d do not match required signers %d", sigCount, numRequired)
	}

	out := make([]byte, len(raw))
	copy(out, raw)

	for _, signer := range signers {
		idx := -1
		pub := signer.PublicKeyBytes()
		for i := 0; i < numRequired; i++ {
			if bytes.Equal(keys[i], pub) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return "", fmt.Errorf("signer %s is not a required signer of this transaction", signer.Address())
		}
		sig := signer.Sign(message)
		copy(out[sigPrefixLen+idx*signatureSize:], sig)
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

// parseMessageAccounts extracts the required-signer count and account
// keys from a legacy message.
func parseMessageAccounts(message []byte) (int, [][]byte, error) {
	if len(message) < 3 {
		return 0, nil, fmt.Errorf("message too short")
	}
	numRequired := int(message[0])

	keyCount, n, err := decodeCompactU16(message[3:])
	if err != nil {
		return 0, nil, fmt.Errorf("parse account count: %w", err)
	}
	offset := 3 + n
	if len(message) < offset+keyCount*ed25519.PublicKeySize {
		return 0, nil, fmt.Errorf("truncated account keys")
	}

	keys := make([][]byte, keyCount)
	for i := 0; i < keyCount; i++ {
		keys[i] = message[offset+i*ed25519.PublicKeySize : offset+(i+1)*ed25519.PublicKeySize]
	}

	if numRequired > keyCount {
		return 0, nil, fmt.Errorf("required signers %d exceed account keys %d", numRequired, keyCount)
	}
	return numRequired, keys, nil
}

package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chunkproto/chunkcrypt/chunkerr"
	"github.com/chunkproto/chunkcrypt/envelope"
	"github.com/chunkproto/chunkcrypt/frame"
	"github.com/chunkproto/chunkcrypt/internal/logger"
	"github.com/chunkproto/chunkcrypt/internal/metrics"
	"github.com/chunkproto/chunkcrypt/keyformats"
	"github.com/chunkproto/chunkcrypt/merkle"
)

var (
	chunkPath      string
	chunkOut       string
	senderKeyFile  string
	receiverKeyFile string
	receiverPKHex  string
	senderPKHex    string
	frameOut       string
	framePath      string
	rootHex        string
	chunkName      string
	chunkTotalSize uint64
	chunkStart     uint64
	chunkEnd       uint64
)

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Assemble and receive wire frames",
}

var frameBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble one wire frame from a chunk, its metadata, and its inclusion proof",
	Example: `  chunkcrypt frame build --chunk chunk.bin --leaves-file leaves.hex --index 0 \
    --sender-key sender.jwk --receiver-pk <hex> --name file.bin --out frame.bin`,
	RunE: runFrameBuild,
}

var frameReceiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Verify and open one wire frame",
	Example: `  chunkcrypt frame receive --frame frame.bin --root <hex> --sender-pk <hex> \
    --receiver-key receiver.jwk`,
	RunE: runFrameReceive,
}

func init() {
	rootCmd.AddCommand(frameCmd)
	frameCmd.AddCommand(frameBuildCmd)
	frameCmd.AddCommand(frameReceiveCmd)

	frameBuildCmd.Flags().StringVar(&chunkPath, "chunk", "", "file containing the raw chunk bytes (required)")
	frameBuildCmd.Flags().StringVar(&leavesFile, "leaves-file", "", "file with one hex-encoded 64-byte hash per line, the leaf for --index is this chunk's hash (required)")
	frameBuildCmd.Flags().IntVar(&leafIndex, "index", -1, "index of this chunk's leaf in the leaves file (required)")
	frameBuildCmd.Flags().StringVar(&senderKeyFile, "sender-key", "", "sender's identity, as a JWK file with private key (required)")
	frameBuildCmd.Flags().StringVar(&receiverPKHex, "receiver-pk", "", "receiver's hex-encoded Ed25519 public key (required)")
	frameBuildCmd.Flags().StringVar(&chunkName, "name", "", "logical name carried in the frame metadata")
	frameBuildCmd.Flags().Uint64Var(&chunkTotalSize, "total-size", 0, "total size of the committed payload")
	frameBuildCmd.Flags().Uint64Var(&chunkStart, "chunk-start", 0, "byte offset of this chunk within the committed payload")
	frameBuildCmd.Flags().Uint64Var(&chunkEnd, "chunk-end", 0, "end byte offset of this chunk within the committed payload")
	frameBuildCmd.Flags().StringVar(&frameOut, "out", "", "output file for the assembled frame (required)")
	frameBuildCmd.MarkFlagRequired("chunk")
	frameBuildCmd.MarkFlagRequired("leaves-file")
	frameBuildCmd.MarkFlagRequired("index")
	frameBuildCmd.MarkFlagRequired("sender-key")
	frameBuildCmd.MarkFlagRequired("receiver-pk")
	frameBuildCmd.MarkFlagRequired("out")

	frameReceiveCmd.Flags().StringVar(&framePath, "frame", "", "file containing one assembled wire frame (required)")
	frameReceiveCmd.Flags().StringVar(&rootHex, "root", "", "hex-encoded 64-byte Merkle root agreed out of band (required)")
	frameReceiveCmd.Flags().StringVar(&senderPKHex, "sender-pk", "", "sender's hex-encoded Ed25519 public key (required)")
	frameReceiveCmd.Flags().StringVar(&receiverKeyFile, "receiver-key", "", "receiver's identity, as a JWK file with private key (required)")
	frameReceiveCmd.Flags().StringVar(&chunkOut, "chunk-out", "", "if set, write the recovered chunk bytes to this file")
	frameReceiveCmd.MarkFlagRequired("frame")
	frameReceiveCmd.MarkFlagRequired("root")
	frameReceiveCmd.MarkFlagRequired("sender-pk")
	frameReceiveCmd.MarkFlagRequired("receiver-key")
}

func runFrameBuild(cmd *cobra.Command, args []string) error {
	chunk, err := os.ReadFile(chunkPath)
	if err != nil {
		return fmt.Errorf("reading chunk: %w", err)
	}
	if len(chunk) > frame.ChunkLen {
		return fmt.Errorf("chunk of %d bytes exceeds ChunkLen %d", len(chunk), frame.ChunkLen)
	}

	leaves, err := readLeaves(leavesFile)
	if err != nil {
		return err
	}
	if leafIndex < 0 || leafIndex >= len(leaves) {
		return fmt.Errorf("index %d out of range for %d leaves", leafIndex, len(leaves))
	}

	root, err := merkle.Root(leaves)
	if err != nil {
		return fmt.Errorf("computing root: %w", err)
	}
	proof, err := merkle.BuildProof(leaves, leaves[leafIndex])
	if err != nil {
		return fmt.Errorf("building proof: %w", err)
	}

	senderKeyData, err := os.ReadFile(senderKeyFile)
	if err != nil {
		return fmt.Errorf("reading sender key: %w", err)
	}
	senderID, err := keyformats.Import(senderKeyData)
	if err != nil {
		return fmt.Errorf("importing sender key: %w", err)
	}
	defer senderID.Zeroize()

	receiverPKBytes, err := hex.DecodeString(receiverPKHex)
	if err != nil {
		return fmt.Errorf("decoding receiver public key: %w", err)
	}
	var receiverPK [frame.SigPKLen]byte
	if len(receiverPKBytes) != len(receiverPK) {
		return fmt.Errorf("receiver public key is %d bytes, want %d", len(receiverPKBytes), len(receiverPK))
	}
	copy(receiverPK[:], receiverPKBytes)

	var nonce [envelope.NonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}

	metadata := frame.Metadata{
		SchemaVersion:   frame.SchemaVersion,
		MessageType:     frame.MessageTypeData,
		Hash:            root,
		TotalSize:       chunkTotalSize,
		DateMS:          time.Now().UnixMilli(),
		Name:            chunkName,
		ChunkStartIndex: chunkStart,
		ChunkEndIndex:   chunkEnd,
		ChunkIndex:      uint64(leafIndex),
	}

	assembled, err := frame.Assemble(chunk, metadata, proof, senderID.SigSK(), receiverPK, nonce, root[:])
	if err != nil {
		return fmt.Errorf("assembling frame: %w", err)
	}

	if err := os.WriteFile(frameOut, assembled, 0600); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	metrics.FramesAssembled.Inc()

	log.Info("assembled frame", logger.String("root", hex.EncodeToString(root[:])), logger.Int("chunk_index", leafIndex))
	fmt.Printf("root: %s\n", hex.EncodeToString(root[:]))
	fmt.Printf("frame written to: %s (%d bytes)\n", frameOut, len(assembled))
	return nil
}

func runFrameReceive(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(framePath)
	if err != nil {
		return fmt.Errorf("reading frame: %w", err)
	}

	rootBytes, err := hex.DecodeString(rootHex)
	if err != nil {
		return fmt.Errorf("decoding root: %w", err)
	}
	var root [merkle.HashLen]byte
	if len(rootBytes) != len(root) {
		return fmt.Errorf("root is %d bytes, want %d", len(rootBytes), len(root))
	}
	copy(root[:], rootBytes)

	senderPKBytes, err := hex.DecodeString(senderPKHex)
	if err != nil {
		return fmt.Errorf("decoding sender public key: %w", err)
	}
	var senderPK [frame.SigPKLen]byte
	if len(senderPKBytes) != len(senderPK) {
		return fmt.Errorf("sender public key is %d bytes, want %d", len(senderPKBytes), len(senderPK))
	}
	copy(senderPK[:], senderPKBytes)

	receiverKeyData, err := os.ReadFile(receiverKeyFile)
	if err != nil {
		return fmt.Errorf("reading receiver key: %w", err)
	}
	receiverID, err := keyformats.Import(receiverKeyData)
	if err != nil {
		return fmt.Errorf("importing receiver key: %w", err)
	}
	defer receiverID.Zeroize()

	metadata, plaintext, err := frame.Receive(raw, root, senderPK, receiverID.SigSK())
	if err != nil {
		switch {
		case errors.Is(err, chunkerr.ErrBadSignature):
			metrics.SignatureFailures.Inc()
		case errors.Is(err, chunkerr.ErrProofMismatch):
			metrics.ProofVerifications.WithLabelValues("mismatch").Inc()
		case errors.Is(err, chunkerr.ErrAuthFailure):
			metrics.AuthFailures.Inc()
		}
		return fmt.Errorf("receiving frame: %w", err)
	}
	metrics.FramesReceived.Inc()
	metrics.ProofVerifications.WithLabelValues("ok").Inc()

	chunk := plaintext[frame.MetadataLen+frame.ProofLen:]

	log.Info("received frame",
		logger.String("name", metadata.Name),
		logger.Int("chunk_index", int(metadata.ChunkIndex)),
	)
	fmt.Printf("schema_version: %d\n", metadata.SchemaVersion)
	fmt.Printf("name: %s\n", metadata.Name)
	fmt.Printf("total_size: %d\n", metadata.TotalSize)
	fmt.Printf("chunk_index: %d\n", metadata.ChunkIndex)
	fmt.Printf("chunk_range: [%d, %d)\n", metadata.ChunkStartIndex, metadata.ChunkEndIndex)
	fmt.Printf("committed_hash: %s\n", hex.EncodeToString(metadata.Hash[:]))

	if chunkOut != "" {
		if err := os.WriteFile(chunkOut, chunk, 0600); err != nil {
			return fmt.Errorf("writing chunk: %w", err)
		}
		fmt.Printf("chunk written to: %s (%d bytes, including trailing pad)\n", chunkOut, len(chunk))
	}
	return nil
}

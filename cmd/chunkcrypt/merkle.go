package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chunkproto/chunkcrypt/merkle"
)

var (
	leavesFile  string
	leafIndex   int
)

var merkleCmd = &cobra.Command{
	Use:   "merkle",
	Short: "Compute Merkle roots and inclusion proofs",
}

var merkleRootCmd = &cobra.Command{
	Use:   "root",
	Short: "Compute the Merkle root of a leaf sequence",
	Example: `  chunkcrypt merkle root --leaves-file leaves.hex`,
	RunE:  runMerkleRoot,
}

var merkleProofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Build the inclusion proof for one leaf",
	Example: `  chunkcrypt merkle proof --leaves-file leaves.hex --index 3`,
	RunE:  runMerkleProof,
}

func init() {
	rootCmd.AddCommand(merkleCmd)
	merkleCmd.AddCommand(merkleRootCmd)
	merkleCmd.AddCommand(merkleProofCmd)

	merkleRootCmd.Flags().StringVar(&leavesFile, "leaves-file", "", "file with one hex-encoded 64-byte hash per line (required)")
	merkleRootCmd.MarkFlagRequired("leaves-file")

	merkleProofCmd.Flags().StringVar(&leavesFile, "leaves-file", "", "file with one hex-encoded 64-byte hash per line (required)")
	merkleProofCmd.Flags().IntVar(&leafIndex, "index", -1, "index of the leaf to prove (required)")
	merkleProofCmd.MarkFlagRequired("leaves-file")
	merkleProofCmd.MarkFlagRequired("index")
}

func readLeaves(path string) ([]merkle.Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening leaves file: %w", err)
	}
	defer f.Close()

	var leaves []merkle.Hash
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		b, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: decoding hex: %w", lineNo, err)
		}
		if len(b) != merkle.HashLen {
			return nil, fmt.Errorf("line %d: leaf is %d bytes, want %d", lineNo, len(b), merkle.HashLen)
		}
		var h merkle.Hash
		copy(h[:], b)
		leaves = append(leaves, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading leaves file: %w", err)
	}
	return leaves, nil
}

func runMerkleRoot(cmd *cobra.Command, args []string) error {
	leaves, err := readLeaves(leavesFile)
	if err != nil {
		return err
	}
	root, err := merkle.Root(leaves)
	if err != nil {
		return fmt.Errorf("computing root: %w", err)
	}
	fmt.Println(hex.EncodeToString(root[:]))
	return nil
}

func runMerkleProof(cmd *cobra.Command, args []string) error {
	leaves, err := readLeaves(leavesFile)
	if err != nil {
		return err
	}
	if leafIndex < 0 || leafIndex >= len(leaves) {
		return fmt.Errorf("index %d out of range for %d leaves", leafIndex, len(leaves))
	}

	proof, err := merkle.BuildProof(leaves, leaves[leafIndex])
	if err != nil {
		return fmt.Errorf("building proof: %w", err)
	}

	for _, a := range proof {
		fmt.Printf("%s %d\n", hex.EncodeToString(a.Sibling[:]), a.Position)
	}
	return nil
}

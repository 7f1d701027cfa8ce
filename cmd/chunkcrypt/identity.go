package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chunkproto/chunkcrypt/identity"
	"github.com/chunkproto/chunkcrypt/internal/logger"
	"github.com/chunkproto/chunkcrypt/keystore"
)

var (
	passphraseFile string
	saltHex        string
	storeKeyID     string
	storeDir       string
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Derive or generate Ed25519 signing identities",
}

var identityDeriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive a deterministic identity from a passphrase and salt",
	Long: `Derive derives a 32-byte seed from a passphrase (read from a file) and a
hex-encoded salt via Argon2id, then derives the Ed25519 identity from that
seed. The derivation is deterministic: the same passphrase and salt always
produce the same identity.`,
	Example: `  chunkcrypt identity derive --passphrase-file pass.txt --salt 00112233445566778899aabbccddeeff`,
	RunE:    runIdentityDerive,
}

var identityGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random Ed25519 identity",
	RunE:  runIdentityGenerate,
}

func init() {
	rootCmd.AddCommand(identityCmd)
	identityCmd.AddCommand(identityDeriveCmd)
	identityCmd.AddCommand(identityGenerateCmd)

	identityDeriveCmd.Flags().StringVar(&passphraseFile, "passphrase-file", "", "file containing the passphrase (required)")
	identityDeriveCmd.Flags().StringVar(&saltHex, "salt", "", "hex-encoded 16-byte salt (required)")
	identityDeriveCmd.Flags().StringVar(&storeKeyID, "store-as", "", "if set, store the derived identity under this key ID")
	identityDeriveCmd.Flags().StringVar(&storeDir, "storage-dir", "", "keystore directory (required with --store-as)")
	identityDeriveCmd.MarkFlagRequired("passphrase-file")
	identityDeriveCmd.MarkFlagRequired("salt")

	identityGenerateCmd.Flags().StringVar(&storeKeyID, "store-as", "", "if set, store the generated identity under this key ID")
	identityGenerateCmd.Flags().StringVar(&storeDir, "storage-dir", "", "keystore directory (required with --store-as)")
	identityGenerateCmd.Flags().StringVar(&passphraseFile, "passphrase-file", "", "file containing the passphrase to encrypt the stored identity with (required with --store-as)")
}

func runIdentityDerive(cmd *cobra.Command, args []string) error {
	passphrase, err := os.ReadFile(passphraseFile)
	if err != nil {
		return fmt.Errorf("reading passphrase file: %w", err)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return fmt.Errorf("decoding salt: %w", err)
	}

	seed, err := identity.DeriveSeed(passphrase, salt)
	if err != nil {
		return fmt.Errorf("deriving seed: %w", err)
	}
	defer seed.Wipe()

	id, err := identity.KeypairFromSeed(seed.Bytes())
	if err != nil {
		return fmt.Errorf("deriving keypair: %w", err)
	}
	defer id.Zeroize()

	log.Info("derived identity", logger.String("sig_pk", hex.EncodeToString(id.SigPK[:])))
	fmt.Printf("sig_pk: %s\n", hex.EncodeToString(id.SigPK[:]))

	return maybeStoreIdentity(id, passphrase)
}

func runIdentityGenerate(cmd *cobra.Command, args []string) error {
	id, err := identity.GenerateKeypair()
	if err != nil {
		return fmt.Errorf("generating identity: %w", err)
	}
	defer id.Zeroize()

	log.Info("generated identity", logger.String("sig_pk", hex.EncodeToString(id.SigPK[:])))
	fmt.Printf("sig_pk: %s\n", hex.EncodeToString(id.SigPK[:]))
	fmt.Printf("sig_sk: %s\n", hex.EncodeToString(id.SigSK()))

	var passphrase []byte
	if passphraseFile != "" {
		passphrase, err = os.ReadFile(passphraseFile)
		if err != nil {
			return fmt.Errorf("reading passphrase file: %w", err)
		}
	}
	return maybeStoreIdentity(id, passphrase)
}

func maybeStoreIdentity(id *identity.Identity, passphrase []byte) error {
	if storeKeyID == "" {
		return nil
	}
	if storeDir == "" {
		return fmt.Errorf("--storage-dir is required with --store-as")
	}
	if len(passphrase) == 0 {
		return fmt.Errorf("a non-empty passphrase is required to store an identity (use --passphrase-file)")
	}

	store, err := keystore.NewFileStore(storeDir)
	if err != nil {
		return fmt.Errorf("opening keystore: %w", err)
	}
	if err := store.Save(storeKeyID, id, passphrase); err != nil {
		return fmt.Errorf("storing identity: %w", err)
	}
	fmt.Printf("stored as: %s\n", storeKeyID)
	return nil
}

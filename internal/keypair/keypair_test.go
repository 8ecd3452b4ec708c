package keypair

import (
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerate_SignVerify(t *testing.T) {
	kp, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	message := []byte("message bytes")
	sig := kp.Sign(message)
	if len(sig) != ed25519.SignatureSize {
		t.Fatalf("signature length: got %d", len(sig))
	}

	pub := ed25519.PublicKey(kp.Public().Bytes())
	if !ed25519.Verify(pub, message, sig) {
		t.Error("signature did not verify")
	}
}

func TestGenerate_PublicOnCurve(t *testing.T) {
	kp, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !kp.Public().IsOnCurve() {
		t.Error("keypair public key should be on-curve")
	}
}

func TestFromBytes_RoundTrip(t *testing.T) {
	kp, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	restored, err := FromBytes(kp.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if restored.Public() != kp.Public() {
		t.Errorf("public key changed: %s vs %s", restored.Public(), kp.Public())
	}
}

func TestFromBytes_Rejections(t *testing.T) {
	if _, err := FromBytes(make([]byte, 32)); err == nil {
		t.Error("expected error for short input")
	}

	kp, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Corrupt the embedded public key half.
	b := kp.Bytes()
	b[40] ^= 0xFF
	if _, err := FromBytes(b); err == nil {
		t.Error("expected error for mismatched public key")
	}
}

func TestLoadFile(t *testing.T) {
	kp, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// solana-keygen writes a JSON array of byte values.
	nums := make([]int, 0, 64)
	for _, b := range kp.Bytes() {
		nums = append(nums, int(b))
	}
	raw, err := json.Marshal(nums)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "keypair.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Public() != kp.Public() {
		t.Errorf("loaded key differs: %s vs %s", loaded.Public(), kp.Public())
	}
}

func TestLoadFile_Rejections(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	os.WriteFile(garbage, []byte("not json"), 0o600)
	if _, err := LoadFile(garbage); err == nil {
		t.Error("expected error for non-JSON file")
	}

	outOfRange := filepath.Join(dir, "range.json")
	os.WriteFile(outOfRange, []byte("[300, 1, 2]"), 0o600)
	if _, err := LoadFile(outOfRange); err == nil {
		t.Error("expected error for out-of-range byte")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

package crypto

import "github.com/odana/odana-core/primitives"

// VerifyTransactionSignature checks a transaction's signature against its
// claimed Sender, independent of any account state. Ed25519 signs the
// canonical payload directly; secp256k1 signs its SHA-256 digest and is
// verified by recovering the signer's public key and comparing the derived
// address, the ecrecover-style check the teacher pack's Ethereum lineage
// uses. Both the block processor and the transaction pool call this same
// check, the pool speculatively and the processor authoritatively.
func VerifyTransactionSignature(tx *primitives.Transaction) bool {
	payload, err := tx.SigningPayload()
	if err != nil {
		return false
	}
	switch tx.SigKind {
	case primitives.SigEd25519:
		if len(tx.PubKey) == 0 {
			return false
		}
		if !VerifyEd25519(tx.PubKey, payload, tx.Signature) {
			return false
		}
		return AddressFromEd25519PubKey(tx.PubKey) == tx.Sender

	case primitives.SigECDSA:
		if len(tx.Signature) != 65 {
			return false
		}
		digest := Sha256(payload)
		pub, err := RecoverSecp256k1(digest, tx.Signature)
		if err != nil {
			return false
		}
		return PubkeyToAddress(pub) == tx.Sender

	default:
		return false
	}
}

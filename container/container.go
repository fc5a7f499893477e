// Package container implements spec.md §4.5: the encrypted wallet file
// format. PBKDF2-HMAC-SHA256 key derivation plus AES-128-CBC encryption of
// a magic-prefixed JSON snapshot, exactly as spec.md §4.5/§6 specify —
// unlike cryptoprim, this format is not an external collaborator the spec
// treats as out of scope, so it is implemented byte-exact.
//
// Grounded on the teacher's modules/wallet/encrypt.go
// encrypt-then-verify-magic idiom, generalized from its Twofish+GCM scheme
// to the PBKDF2+AES-CBC scheme spec.md §4.5 mandates, using
// golang.org/x/crypto/pbkdf2 (the same x/crypto module family the teacher
// already depends on for its own crypto primitives).
package container

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	"github.com/cryptonote-community/walletcore/types"
)

const (
	pbkdf2Iterations = 500000
	keyLen           = 16
	saltLen          = 16
)

// WalletMagic and PwdMagic are the fixed guard byte sequences spec.md §4.5
// prepends before the salt and before the plaintext snapshot respectively.
var (
	WalletMagic = []byte("CNWALLET\x01")
	PwdMagic    = []byte("PWDCHECK")
)

// Encrypt renders plaintext (a JSON wallet snapshot) as WALLET_MAGIC ‖
// salt ‖ AES-128-CBC(PWD_MAGIC ‖ plaintext), spec.md §4.5.
func Encrypt(password string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := deriveKey(password, salt)

	padded := pkcs7Pad(append(append([]byte{}, PwdMagic...), plaintext...), aes.BlockSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, salt).CryptBlocks(ciphertext, padded)

	out := make([]byte, 0, len(WalletMagic)+saltLen+len(ciphertext))
	out = append(out, WalletMagic...)
	out = append(out, salt...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decrypt reverses Encrypt, per spec.md §4.5's exact error taxonomy:
// ErrNotAWalletFile on a magic mismatch, ErrWrongPassword on any AES/
// padding/PWD_MAGIC failure.
func Decrypt(password string, blob []byte) ([]byte, error) {
	if len(blob) < len(WalletMagic)+saltLen {
		return nil, types.ErrNotAWalletFile
	}
	if !bytes.Equal(blob[:len(WalletMagic)], WalletMagic) {
		return nil, types.ErrNotAWalletFile
	}
	rest := blob[len(WalletMagic):]
	salt, ciphertext := rest[:saltLen], rest[saltLen:]

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, types.ErrWrongPassword
	}

	key := deriveKey(password, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, types.ErrWrongPassword
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, salt).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, types.ErrWrongPassword
	}

	if len(unpadded) < len(PwdMagic) || !bytes.Equal(unpadded[:len(PwdMagic)], PwdMagic) {
		return nil, types.ErrWrongPassword
	}
	return unpadded[len(PwdMagic):], nil
}

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLen, sha256.New)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(data, padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, types.ErrWrongPassword
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, types.ErrWrongPassword
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, types.ErrWrongPassword
		}
	}
	return data[:len(data)-padLen], nil
}

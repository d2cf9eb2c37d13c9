package fairness

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"lottery_backend/internal/model"
)

const (
	// rejectFrom - байты от 250 и выше отбрасываются, иначе распределение byte%10 смещено
	rejectFrom = 250
	seedBytes  = 32
)

// GenerateServerSeed - 32 случайных байта в hex
func GenerateServerSeed() (string, error) {
	b := make([]byte, seedBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Commitment - sha256 от сида, публикуется до раунда
func Commitment(serverSeed string) string {
	h := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(h[:])
}

// DeriveDigits - HMAC-SHA256(serverSeed, roundID||clientSeed||counter) с отбраковкой байтов
func DeriveDigits(serverSeed, roundID, clientSeed string) model.Digits {
	var counter uint32
	return digitsFromStream(func() []byte {
		mac := hmac.New(sha256.New, []byte(serverSeed))
		mac.Write([]byte(roundID))
		mac.Write([]byte(clientSeed))

		var c [4]byte
		binary.BigEndian.PutUint32(c[:], counter)
		mac.Write(c[:])
		counter++

		return mac.Sum(nil)
	})
}

// digitsFromStream - набирает 6 цифр из блоков байтов, запрашивая следующий блок по мере необходимости
func digitsFromStream(next func() []byte) model.Digits {
	var d model.Digits
	n := 0
	for n < model.DigitsCount {
		for _, b := range next() {
			if b >= rejectFrom {
				continue
			}
			d[n] = int(b % 10)
			n++
			if n == model.DigitsCount {
				break
			}
		}
	}
	return d
}

// Verify - пересчитывает цифры по раскрытому сиду и сравнивает с опубликованными
func Verify(serverSeed, roundID, clientSeed string, digits model.Digits) bool {
	got := DeriveDigits(serverSeed, roundID, clientSeed)
	return subtle.ConstantTimeCompare([]byte(got.String()), []byte(digits.String())) == 1
}

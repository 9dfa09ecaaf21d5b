// Command keygen generates PRO license keys for offline distribution.
//
// Usage:
//
//	keygen -n 10          generate 10 random keys
//	keygen -code ABCD     generate a key for a specific code
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math/big"

	"github.com/mariusw/photoframe/internal/license"
)

const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode() (string, error) {
	code := make([]byte, 4)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
		if err != nil {
			return "", err
		}
		code[i] = codeChars[n.Int64()]
	}
	return string(code), nil
}

func main() {
	count := flag.Int("n", 5, "number of random keys to generate")
	code := flag.String("code", "", "generate a key for a specific 4-character code")
	flag.Parse()

	if *code != "" {
		fmt.Println(license.GenerateKey(*code))
		return
	}

	for i := 0; i < *count; i++ {
		c, err := randomCode()
		if err != nil {
			log.Fatalf("Failed to generate random code: %v", err)
		}
		fmt.Println(license.GenerateKey(c))
	}
}

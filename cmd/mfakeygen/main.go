package main

import (
	"encoding/base64"
	"fmt"
	"log"

	"github.com/pbxkit/mfa/pkg/secrets"
)

func main() {
	key, err := secrets.GenerateKey()
	if err != nil {
		log.Fatalf("Failed to generate master key: %v", err)
	}

	fmt.Printf("Generated Master Key (for MFA_MASTER_KEY env var): \n———\n%s\n———\n", base64.StdEncoding.EncodeToString(key))
}

// Command adminkey prints the bcrypt hash of an admin key for the
// ADMIN_KEY_HASH environment variable.
//
//	go run ./cmd/adminkey -key "s3cret" -cost 12
package main

import (
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/railway-ticket-reservation/internal/utils"
)

func main() {
	key := flag.String("key", "", "admin key to hash")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	if *key == "" {
		log.Fatal("-key is required")
	}
	hash, err := utils.HashSecret(*key, *cost)
	if err != nil {
		log.Fatalf("hash admin key: %v", err)
	}
	fmt.Println(hash)
}

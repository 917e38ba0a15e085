// Command token mints an operator access token for the admin API. Operator
// accounts are not stored in the service; tokens are issued out of band by
// whoever holds the signing secret.
package main

import (
	"fmt"
	"log"
	"os"

	"tally/config"
	"tally/infras/jwt"
	"tally/shared/constant"
)

const (
	argLength = 2
)

func main() {
	if len(os.Args) < argLength {
		log.Fatal("Usage: token <user-id> [role]")
	}

	userID := os.Args[1]

	role := constant.RoleOperator
	if len(os.Args) > argLength {
		role = os.Args[2]
	}

	cfg := config.Get()

	token, err := jwt.New(cfg).GenerateToken(userID, role)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}

package hash

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used for new hashes. Tests lower it.
var Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	ifequiv := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return ifequiv == nil
}

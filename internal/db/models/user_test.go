package models

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash := HashPassword("hunter2")

	if hash == "hunter2" {
		t.Fatal("password stored in clear")
	}

	user := User{Password: hash}

	if !user.VerifyPassword("hunter2") {
		t.Error("correct password rejected")
	}

	if user.VerifyPassword("wrong") {
		t.Error("wrong password accepted")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	user := User{Password: "not-an-argon2id-hash"}

	if user.VerifyPassword("anything") {
		t.Error("malformed hash verified")
	}
}

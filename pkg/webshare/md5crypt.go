package webshare

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
)

const md5cryptMagic = "$1$"

const cryptBase64 = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// md5crypt implements the crypt(3) MD5 password scheme. The remote login
// endpoint expects its password hash in exactly this format.
func md5crypt(password, salt []byte) string {
	magic := []byte(md5cryptMagic)

	a := md5.New()
	a.Write(password)
	a.Write(magic)
	a.Write(salt)

	b := md5.New()
	b.Write(password)
	b.Write(salt)
	b.Write(password)
	bsum := b.Sum(nil)

	for i := len(password); i > 0; i -= 16 {
		if i > 16 {
			a.Write(bsum)
		} else {
			a.Write(bsum[:i])
		}
	}

	for i := len(password); i > 0; i >>= 1 {
		if i&1 == 1 {
			a.Write([]byte{0})
		} else {
			a.Write(password[:1])
		}
	}

	final := a.Sum(nil)

	// 1000 strengthening rounds.
	for i := 0; i < 1000; i++ {
		c := md5.New()
		if i&1 == 1 {
			c.Write(password)
		} else {
			c.Write(final)
		}
		if i%3 != 0 {
			c.Write(salt)
		}
		if i%7 != 0 {
			c.Write(password)
		}
		if i&1 == 1 {
			c.Write(final)
		} else {
			c.Write(password)
		}
		final = c.Sum(nil)
	}

	// Rearranged byte groups, least-significant 6 bits emitted first.
	groups := [5][3]int{
		{0, 6, 12},
		{1, 7, 13},
		{2, 8, 14},
		{3, 9, 15},
		{4, 10, 5},
	}

	encoded := make([]byte, 0, 22)
	for _, g := range groups {
		v := uint32(final[g[0]])<<16 | uint32(final[g[1]])<<8 | uint32(final[g[2]])
		for j := 0; j < 4; j++ {
			encoded = append(encoded, cryptBase64[v&0x3f])
			v >>= 6
		}
	}
	v := uint32(final[11])
	encoded = append(encoded, cryptBase64[v&0x3f])
	v >>= 6
	encoded = append(encoded, cryptBase64[v&0x3f])

	return md5cryptMagic + string(salt) + "$" + string(encoded)
}

// passwordHash computes the hash submitted as the login password:
// SHA-1 over the md5crypt of the plain password and the server-issued salt.
func passwordHash(password, salt string) string {
	crypted := md5crypt([]byte(password), []byte(salt))
	sum := sha1.Sum([]byte(crypted))
	return hex.EncodeToString(sum[:])
}

// loginDigest computes the secondary credential digest:
// MD5 over "username:Webshare:passwordHash".
func loginDigest(username, hash string) string {
	sum := md5.Sum([]byte(username + ":Webshare:" + hash))
	return hex.EncodeToString(sum[:])
}

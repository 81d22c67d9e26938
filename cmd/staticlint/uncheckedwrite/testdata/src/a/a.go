package a

import (
	"bytes"
	"net/http"
)

func unchecked(w http.ResponseWriter) {
	w.Write([]byte("User profile 1 deleted")) // want "error returned by http.ResponseWriter.Write is not checked"
}

func checked(w http.ResponseWriter) error {
	_, err := w.Write([]byte("Missing user_id"))
	return err
}

func blank(w http.ResponseWriter) {
	_, _ = w.Write([]byte("Method Not Allowed"))
}

func otherWriter(b *bytes.Buffer) {
	b.Write([]byte("not a response"))
}

// Package httpjson 是各 handler 共用的 JSON 请求/响应工具
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes 是请求体上限（1 MiB）
const MaxBodyBytes = 1 << 20

var ErrTrailingData = errors.New("body must contain a single JSON object")

// Decode 限制请求体大小，只接受单个 JSON 对象
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrTrailingData
	}
	return nil
}

func Write(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// Error 写出 {"error": message}
func Error(w http.ResponseWriter, status int, message string) error {
	return Write(w, status, map[string]string{"error": message})
}

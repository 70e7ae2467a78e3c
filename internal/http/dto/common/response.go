// Package common contiene el sobre de respuesta compartido por la API.
package common

// WebResponse es el sobre de las respuestas exitosas.
type WebResponse[T any] struct {
	Status   bool   `json:"status"`
	Messages string `json:"messages"`
	Data     T      `json:"data"`
}

// OK arma un WebResponse exitoso.
func OK[T any](msg string, data T) WebResponse[T] {
	return WebResponse[T]{Status: true, Messages: msg, Data: data}
}

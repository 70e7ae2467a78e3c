// Package types define los tipos de dominio compartidos: roles, conjuntos de
// roles y el registro persistido de una cuenta (Principal).
package types

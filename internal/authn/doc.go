// Package authn implementa el ciclo de vida de una sesión con bearer token:
// emisión (Issuer), verificación por request (Gate) y chequeo de roles
// (Authorize).
//
// Hay una sola sesión vigente por cuenta. El store guarda el último token
// emitido y su vencimiento; cualquier token anterior queda revocado en el
// momento en que se emite uno nuevo. Para eso el Gate consulta el store en
// cada request y compara el token presentado contra el guardado.
//
// Todos los rechazos son *Rejection con uno de seis Kind; la capa HTTP
// decide el status (ver internal/http/errors.FromRejection).
package authn

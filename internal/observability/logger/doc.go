// Package logger expone un logger Zap de proceso y un logger por request
// que viaja en el contexto.
//
// Init se llama una vez desde cmd/ezdine con la configuración ya cargada;
// después cualquier capa usa L() o From(ctx):
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Login"))
//	log.Debug("credentials rejected", logger.Identity(email))
//
// "dev" escribe en consola con colores, "prod" en JSON. Los passwords y los
// tokens nunca se loguean; para una sesión se usa su jti (TokenID).
package logger

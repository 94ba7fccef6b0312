package middleware

import "github.com/gorilla/handlers"

// CompressHandler gzips responses when the client accepts it.
var CompressHandler = handlers.CompressHandler

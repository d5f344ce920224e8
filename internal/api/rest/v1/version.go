package v1

// BasePath is the URL prefix all version 1 routes are mounted under.
const BasePath = "/api/v1/jlhfw"

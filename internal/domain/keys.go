package domain

// KeyPrefix namespaces all store keys. Overridden from config at startup.
var KeyPrefix = "insight:"

package domain

// KeyPrefix namespaces every key the pipeline writes to the cache store.
const KeyPrefix = "wbindicators:"

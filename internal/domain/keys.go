package domain

// KeyPrefix is the namespace for every key blogsearch writes to the KV store.
const KeyPrefix = "blogsearch:"

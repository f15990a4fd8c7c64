package leakradar

// Version is the client library version reported in the default User-Agent.
const Version = "1.0.0"

// Package bluetooth holds identifiers shared with the Bluetooth swap
// transport. Only the service UUID lives here.
package bluetooth

import "github.com/google/uuid"

// ServiceUUIDString is the RFCOMM service record UUID used to find peers.
const ServiceUUIDString = "f81d4fae-7dec-11d0-a765-00a0c91e6bf6"

// ServiceUUID is ServiceUUIDString parsed once at init.
var ServiceUUID = uuid.MustParse(ServiceUUIDString)

// Package client implements the RPC client of sKV. RPCStore implements store.IStore
// on top of a client transport and a serializer, so code written against the local
// store works unchanged against a remote server.
//
// Error mapping:
//
//   - Ok responses are successes (the message is the value for Get).
//   - Err("Key not found: <key>") becomes a *store.Error matching store.ErrKeyNotFound.
//   - Every other Err response becomes a *store.Error with RetCInternalError.
//   - Transport and decode failures are returned as they are.
//
// Do gives access to the raw response, e.g. for the CLI.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:  []string{"127.0.0.1:8080"},
//	    RetryCount: 3,
//	  },
//	}
//
//	s, _ := client.NewRPCStore(config, tcp.NewTCPClientTransport(), serializer.NewJSONSerializer())
//	_ = s.Put("a", "1")
//	value, err := s.Get("a")
package client

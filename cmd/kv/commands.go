package kv

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/spf13/cobra"
)

var (
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := rpcStore.Do(*common.NewPutRequest(args[0], args[1]))
			if err != nil {
				return err
			}
			if !resp.IsOk() {
				return errors.New(resp.Message)
			}
			fmt.Println(resp.Message)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, err := rpcStore.Get(key)
			switch {
			case errors.Is(err, store.ErrKeyNotFound):
				fmt.Printf("key=%s, found=false\n", key)
			case err != nil:
				return err
			default:
				fmt.Printf("key=%s, found=true, value=%s\n", key, value)
			}
			return nil
		},
	}
)

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gravis-finance/incentives/api/utils"
	"github.com/gravis-finance/incentives/solo"
)

type Chain interface {
	Head() *solo.Head
}

type Node struct {
	chain Chain
	info  Info
}

// Info is static information about the running node.
type Info struct {
	Network       string `json:"network"`
	BlockInterval uint64 `json:"blockInterval"`
}

func New(chain Chain, info Info) *Node {
	return &Node{
		chain,
		info,
	}
}

func (n *Node) handleHead(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, n.chain.Head())
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, n.info)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/head").
		Methods(http.MethodGet).
		Name("node_get_head").
		HandlerFunc(utils.WrapHandlerFunc(n.handleHead))
	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}

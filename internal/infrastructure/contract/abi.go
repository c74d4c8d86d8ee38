package contract

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// PriceMonitor ABI, trimmed to the surface this service uses.
const priceMonitorABI = `[
	{"inputs":[],"name":"isThresholdBreached","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"threshold","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"lastPrice","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"lastUpdatedAt","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"priceFeed","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"updatePrice","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"newThreshold","type":"uint256"}],"name":"setThreshold","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":false,"internalType":"int256","name":"price","type":"int256"},{"indexed":false,"internalType":"uint256","name":"updatedAt","type":"uint256"}],"name":"PriceUpdated","type":"event"},
	{"anonymous":false,"inputs":[{"indexed":false,"internalType":"uint256","name":"newThreshold","type":"uint256"}],"name":"ThresholdUpdated","type":"event"}
]`

// Chainlink AggregatorV3 minimal part for latestRoundData.
const aggregatorV3ABI = `[
	{"inputs":[],"name":"latestRoundData","outputs":[
		{"internalType":"uint80","name":"roundId","type":"uint80"},
		{"internalType":"int256","name":"answer","type":"int256"},
		{"internalType":"uint256","name":"startedAt","type":"uint256"},
		{"internalType":"uint256","name":"updatedAt","type":"uint256"},
		{"internalType":"uint80","name":"answeredInRound","type":"uint80"}
	],"stateMutability":"view","type":"function"}
]`

var (
	parsedMonitorABI    abi.ABI
	parsedAggregatorABI abi.ABI
	parseABIsOnce       sync.Once
)

func initParsedABIs() {
	parseABIsOnce.Do(func() {
		var err error
		parsedMonitorABI, err = abi.JSON(strings.NewReader(priceMonitorABI))
		if err != nil {
			// Static ABI text, failure here is a programming error.
			panic(fmt.Sprintf("failed to parse PriceMonitor ABI: %v", err))
		}
		parsedAggregatorABI, err = abi.JSON(strings.NewReader(aggregatorV3ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse AggregatorV3 ABI: %v", err))
		}
	})
}

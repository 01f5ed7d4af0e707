package database

// Balances folds over the blocks and returns the net balance of every
// account that has transacted. Rewards only credit their receiver.
func Balances(blocks []Block) map[AccountID]int64 {
	balances := make(map[AccountID]int64)
	for _, block := range blocks {
		for _, tx := range block.Trans {
			if !tx.IsReward() {
				balances[tx.From] -= int64(tx.Amount)
			}
			balances[tx.To] += int64(tx.Amount)
		}
	}

	return balances
}

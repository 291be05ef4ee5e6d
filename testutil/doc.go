/*
Package testutil 提供 imagegate 测试的共享工具和辅助函数。

# 核心能力

  - 上下文辅助: TestContext，自动注册 Cleanup
  - 断言工具: AssertJSONBody（上游请求体）、AssertNoSecret（凭证不外泄）、
    AssertDataURI（规范化结果）
  - 数据工具: MustParseJSON
  - 假服务商: FakeProvider 基于 httptest 模拟四家图像服务商的线协议，
    记录每次请求以便断言路径、鉴权头与请求体

# 子包

  - testutil/mocks: MockConfigStore、MockSecretSource，支持 Builder 模式与错误注入
  - testutil/fixtures: 测试图像字节与示例 Prompt

# 使用示例

	fake := testutil.NewFakeProvider(t)
	fake.OpenAIReturnsURL(fixtures.PNG())
	cfg.OpenAI.BaseURL = fake.URL()
*/
package testutil
